// Package migration converts persisted records of any past shape into the
// current one. Every function here is pure and idempotent: running it on its
// own output changes nothing.
package migration

import "lemonshop_server/structs"

// Categories converts a persisted category list into the flat parent/order
// form. The old grouped shape is detected by its first element carrying an
// items array; each old group becomes a root and its items become children.
func Categories(list []structs.LegacyCategory) []structs.Category {
	out := make([]structs.Category, 0, len(list))
	if len(list) == 0 {
		return out
	}

	if list[0].Items != nil {
		order := 0
		for _, group := range list {
			out = append(out, structs.Category{
				ID:    group.ID,
				Name:  group.Name,
				Order: order,
			})
			order++

			for i, item := range group.Items {
				out = append(out, structs.Category{
					ID:       item.ID,
					Name:     item.Name,
					ParentID: group.ID.Ptr(),
					Order:    i,
				})
			}
		}
		return out
	}

	for _, c := range list {
		cat := structs.Category{ID: c.ID, Name: c.Name}
		if c.ParentID != nil {
			cat.ParentID = c.ParentID.Ptr()
		}
		if c.Order != nil {
			cat.Order = int(*c.Order)
		}
		out = append(out, cat)
	}
	return out
}
