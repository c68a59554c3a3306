package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/youverse/dupliverse/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email and password and creates a new
// account. A profile is not created here; it appears on first login, when
// the sync store fetches and finds nothing.
//
// The password byte slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.SignUp(ctx, email, password); err != nil {
		log.Printf("Registration unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials and authenticates. On success the
// session provider emits a signed-in event; the scheduler picks it up and
// fetches (or creates) the profile in the background.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.SignIn(ctx, email, password); err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	log.Printf("Login successfull")
	return nil
}

// Logout revokes the session on the server; the signed-out event clears all
// user data from the store and the local cache.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.SignOut(ctx); err != nil {
		log.Printf("Logout error: %s", err.Error())
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// Whoami prints the current session, if any.
func (a *App) Whoami(ctx context.Context) error {
	s := a.store.State().Session
	if s == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("Logged in as %s (user %s)\n", s.Email, s.ID)
	return nil
}
