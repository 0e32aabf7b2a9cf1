package migration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lemonshop_server/structs"
)

// rawSnapshot keeps every section undecoded so that one bad section does not
// take the others down with it.
type rawSnapshot struct {
	Products   json.RawMessage `json:"products"`
	Categories json.RawMessage `json:"categories"`
	Settings   json.RawMessage `json:"settings"`
	Users      json.RawMessage `json:"users"`
	Visits     json.RawMessage `json:"visits"`
	Theme      json.RawMessage `json:"theme"`
	Orders     json.RawMessage `json:"orders"`
	Seq        json.RawMessage `json:"seq"`
}

// Snapshot decodes a persisted snapshot blob and migrates it. Missing fields
// take their defaults. Sections that cannot be decoded also take their
// defaults; the returned error describes what was dropped and is never fatal,
// the snapshot is always usable.
func Snapshot(raw []byte, now time.Time) (structs.Snapshot, error) {
	snap := structs.NewSnapshot()
	if isAbsent(raw) {
		return snap, nil
	}

	var sections rawSnapshot
	if err := json.Unmarshal(raw, &sections); err != nil {
		return snap, fmt.Errorf("snapshot: %w", err)
	}

	var errs []error

	legacyCategories, err := decodeList[structs.LegacyCategory]("categories", sections.Categories)
	errs = append(errs, err)
	snap.Categories = Categories(legacyCategories)

	legacyProducts, err := decodeList[structs.LegacyProduct]("products", sections.Products)
	errs = append(errs, err)
	snap.Products = Products(legacyProducts, now)

	if !isAbsent(sections.Settings) {
		settings := structs.DefaultSettings()
		if err := json.Unmarshal(sections.Settings, &settings); err != nil {
			errs = append(errs, fmt.Errorf("settings: %w", err))
		} else {
			snap.Settings = settings
		}
	}

	users, err := decodeList[structs.User]("users", sections.Users)
	errs = append(errs, err)
	snap.Users = users

	orders, err := decodeList[structs.Order]("orders", sections.Orders)
	errs = append(errs, err)
	snap.Orders = orders

	if !isAbsent(sections.Visits) {
		var visits float64
		if err := json.Unmarshal(sections.Visits, &visits); err != nil {
			errs = append(errs, fmt.Errorf("visits: %w", err))
		} else {
			snap.Visits = int(visits)
		}
	}

	if !isAbsent(sections.Theme) {
		var theme string
		if err := json.Unmarshal(sections.Theme, &theme); err != nil {
			errs = append(errs, fmt.Errorf("theme: %w", err))
		} else {
			snap.Theme = theme
		}
	}

	if !isAbsent(sections.Seq) {
		if err := json.Unmarshal(sections.Seq, &snap.Seq); err != nil {
			snap.Seq = structs.Sequences{}
			errs = append(errs, fmt.Errorf("seq: %w", err))
		}
	}
	seedSequences(&snap)

	return snap, errors.Join(errs...)
}

// seedSequences raises every sequence to at least the highest id present.
// Snapshots written before sequences existed carry none at all.
func seedSequences(snap *structs.Snapshot) {
	for _, p := range snap.Products {
		snap.Seq.Products = max(snap.Seq.Products, p.ID)
	}
	for _, c := range snap.Categories {
		snap.Seq.Categories = max(snap.Seq.Categories, c.ID.Int())
	}
	for _, o := range snap.Orders {
		snap.Seq.Orders = max(snap.Seq.Orders, o.ID)
	}
	for _, u := range snap.Users {
		snap.Seq.Users = max(snap.Seq.Users, u.ID)
	}
}

// decodeList decodes a JSON array element by element, skipping the elements
// that do not fit T. The result is never nil.
func decodeList[T any](section string, raw json.RawMessage) ([]T, error) {
	out := make([]T, 0)
	if isAbsent(raw) {
		return out, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return out, fmt.Errorf("%s: %w", section, err)
	}

	var errs []error
	for i, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", section, i, err))
			continue
		}
		out = append(out, v)
	}
	return out, errors.Join(errs...)
}

func isAbsent(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
