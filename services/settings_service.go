package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

// SettingsService covers the small single-record parts of the snapshot:
// settings, theme, the visit counter and the user list.
type SettingsService struct {
	logger *gecho.Logger
	store  *StoreService
}

func NewSettingsService(logger *gecho.Logger, store *StoreService) *SettingsService {
	return &SettingsService{
		logger: logger,
		store:  store,
	}
}

func (ss *SettingsService) Settings(ctx context.Context) structs.Settings {
	return ss.store.Load(ctx).Settings
}

// Public returns the storefront view of the settings, without the password
func (ss *SettingsService) Public(ctx context.Context) structs.PublicSettings {
	snap := ss.store.Load(ctx)
	public := snap.Settings.Public()
	public.Theme = snap.Theme
	return public
}

// Patch shallow-merges patch into the stored settings
func (ss *SettingsService) Patch(ctx context.Context, patch structs.SettingsPatch) (structs.Settings, bool, error) {
	snap, saved, err := ss.store.Update(ctx, func(snap *structs.Snapshot) error {
		snap.Settings = patch.Apply(snap.Settings)
		return nil
	})
	if err != nil {
		return structs.Settings{}, false, err
	}

	ss.logger.Info("Settings updated", gecho.Field("saved", saved))
	return snap.Settings, saved, nil
}

func (ss *SettingsService) SetTheme(ctx context.Context, theme string) (bool, error) {
	_, saved, err := ss.store.Update(ctx, func(snap *structs.Snapshot) error {
		snap.Theme = theme
		return nil
	})
	return saved, err
}

// IncrementVisits bumps the visit counter and returns the new value
func (ss *SettingsService) IncrementVisits(ctx context.Context) (int, bool) {
	snap, saved, _ := ss.store.Update(ctx, func(snap *structs.Snapshot) error {
		snap.Visits++
		return nil
	})
	return snap.Visits, saved
}

func (ss *SettingsService) Visits(ctx context.Context) int {
	return ss.store.Load(ctx).Visits
}

func (ss *SettingsService) Users(ctx context.Context) []structs.User {
	return ss.store.Load(ctx).Users
}

func userKey(u structs.User) int64 { return u.ID }

func (ss *SettingsService) AddUser(ctx context.Context, req structs.CreateUserRequest) (structs.User, bool, error) {
	var created structs.User
	_, saved, err := ss.store.Update(ctx, func(snap *structs.Snapshot) error {
		created = structs.User{
			ID:    lib.NextIDAfter(snap.Users, userKey, snap.Seq.Users),
			Name:  strings.TrimSpace(req.Name),
			Email: strings.TrimSpace(req.Email),
			Role:  req.Role,
		}
		if created.Role == "" {
			created.Role = "user"
		}
		snap.Seq.Users = created.ID
		snap.Users = append(snap.Users, created)
		return nil
	})
	if err != nil {
		return structs.User{}, false, err
	}

	ss.logger.Info("User added", gecho.Field("id", created.ID), gecho.Field("saved", saved))
	return created, saved, nil
}

func (ss *SettingsService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	_, saved, err := ss.store.Update(ctx, func(snap *structs.Snapshot) error {
		n := len(snap.Users)
		snap.Users = slices.DeleteFunc(snap.Users, func(u structs.User) bool { return u.ID == id })
		if len(snap.Users) == n {
			return fmt.Errorf("user %d: %w", id, lib.ErrNotFound)
		}
		return nil
	})
	return saved, err
}
