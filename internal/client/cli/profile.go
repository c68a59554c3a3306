package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/youverse/dupliverse/internal/client/models"
)

// Show prints the current profile snapshot.
func (a *App) Show(ctx context.Context) error {
	st := a.store.State()
	if st.Profile == nil {
		fmt.Println("No profile yet. Log in first (or wait for the sync to finish).")
		return nil
	}

	p := st.Profile
	username := "(not set)"
	if p.Username != nil {
		username = *p.Username
	}
	fmt.Printf("Profile %s\n", p.ID)
	fmt.Printf("  username: %s\n", username)
	fmt.Printf("  wallet:   %.2f\n", p.WalletBalance)
	if len(p.Preferences) > 0 {
		b, _ := json.MarshalIndent(p.Preferences, "  ", "  ")
		fmt.Printf("  prefs:    %s\n", b)
	}
	return nil
}

// SetUsername prompts for a new username and pushes it to the server,
// showing the change optimistically in the meantime.
func (a *App) SetUsername(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter new username", os.Stdout)
	if err != nil {
		return err
	}
	if username == "" {
		fmt.Println("Username cannot be empty.")
		return nil
	}

	if err := a.store.UpdateProfile(ctx, models.ProfilePatch{Username: &username}); err != nil {
		log.Printf("Update rejected, change rolled back: %s", err.Error())
		return err
	}
	fmt.Println("Username updated.")
	return nil
}

// SetPref prompts for a preference key and value and merges the single key
// into the profile preferences. The value is stored as a string.
func (a *App) SetPref(ctx context.Context) error {
	key, err := getSimpleText(a.reader, "Enter preference key", os.Stdout)
	if err != nil {
		return err
	}
	if key == "" {
		fmt.Println("Key cannot be empty.")
		return nil
	}
	value, err := getSimpleText(a.reader, "Enter preference value", os.Stdout)
	if err != nil {
		return err
	}

	patch := models.ProfilePatch{Preferences: map[string]any{key: value}}
	if err := a.store.UpdateProfile(ctx, patch); err != nil {
		log.Printf("Update rejected, change rolled back: %s", err.Error())
		return err
	}
	fmt.Println("Preference saved.")
	return nil
}

// WalletAdd prompts for an amount and tops up the wallet.
func (a *App) WalletAdd(ctx context.Context) error {
	amount, err := a.readAmount()
	if err != nil {
		return err
	}
	if err := a.store.AddToWallet(ctx, amount); err != nil {
		log.Printf("Top-up rejected, change rolled back: %s", err.Error())
		return err
	}
	fmt.Printf("Wallet is now %.2f\n", a.store.State().Profile.WalletBalance)
	return nil
}

// WalletSub prompts for an amount and deducts it from the wallet.
// The balance never drops below zero.
func (a *App) WalletSub(ctx context.Context) error {
	amount, err := a.readAmount()
	if err != nil {
		return err
	}
	if err := a.store.SubtractFromWallet(ctx, amount); err != nil {
		log.Printf("Deduction rejected, change rolled back: %s", err.Error())
		return err
	}
	fmt.Printf("Wallet is now %.2f\n", a.store.State().Profile.WalletBalance)
	return nil
}

func (a *App) readAmount() (float64, error) {
	raw, err := getSimpleText(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		return 0, err
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Println("Not a number:", raw)
		return 0, err
	}
	return amount, nil
}

// Sync forces a re-fetch of the profile from the server.
func (a *App) Sync(ctx context.Context) error {
	if err := a.store.FetchProfile(ctx); err != nil {
		log.Printf("Sync failed: %s", err.Error())
		return err
	}
	fmt.Println("Synced.")
	return nil
}

// Status prints the store's sync state.
func (a *App) Status(ctx context.Context) error {
	st := a.store.State()
	fmt.Printf("phase:      %s\n", a.scheduler.Phase())
	fmt.Printf("status:     %s\n", st.SyncStatus)
	fmt.Printf("hydrated:   %t\n", st.IsHydrated)
	fmt.Printf("loading:    %t\n", st.IsLoading)
	if !st.LastSyncAt.IsZero() {
		fmt.Printf("last sync:  %s\n", st.LastSyncAt.Format("15:04:05"))
	}
	if st.Err != nil {
		fmt.Printf("last error: %s\n", st.Err.Error())
	}
	return nil
}

// Foreground simulates the app regaining visibility.
func (a *App) Foreground(ctx context.Context) error {
	a.visibility.Set(true)
	fmt.Println("App is visible; stale data will be re-fetched.")
	return nil
}

// Background simulates the app being hidden.
func (a *App) Background(ctx context.Context) error {
	a.visibility.Set(false)
	fmt.Println("App is hidden; periodic sync paused.")
	return nil
}
