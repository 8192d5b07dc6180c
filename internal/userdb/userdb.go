// Package userdb implements the Users component: login, logout,
// unregister and change-password over the filesystem store.
package userdb

import (
	"os"

	"github.com/stlalpha/eventsd/internal/store"
)

// Result is the status code returned by a Users operation.
type Result string

const (
	OK  Result = "OK"
	REG Result = "REG"
	NOK Result = "NOK"
	ERR Result = "ERR"
	UNR Result = "UNR"
	WRP Result = "WRP"
	NLG Result = "NLG"
	NID Result = "NID"
)

// exists reports whether uid is an existing user: both its directory and
// its password file are present.
func exists(s *store.Store, uid string) bool {
	return store.DirExists(s.UserDir(uid)) && store.FileExists(s.PassFile(uid))
}

func loggedIn(s *store.Store, uid string) bool {
	return store.FileExists(s.LoginFile(uid))
}

func checkPassword(s *store.Store, uid, pass string) bool {
	got, err := store.ReadFirstLine(s.PassFile(uid))
	if err != nil {
		return false
	}
	return got == pass
}

func ensureUserSkeleton(s *store.Store, uid string) error {
	if err := s.EnsureUsersRoot(); err != nil {
		return err
	}
	for _, dir := range []string{s.UserDir(uid), s.CreatedDir(uid), s.ReservedDir(uid)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Login treats a user as existing iff both the user directory and
// password file are present. A directory present without a password file
// (the aftermath of a prior Unregister) is re-registered in place,
// preserving CREATED/ and RESERVED/ history; a wholly absent directory is
// created fresh. Either case returns REG; an existing user with a
// matching password returns OK, a mismatched one returns NOK.
func Login(s *store.Store, uid, pass string) (Result, error) {
	unlock, err := s.Lock()
	if err != nil {
		return ERR, err
	}
	defer unlock()

	if exists(s, uid) {
		if !checkPassword(s, uid, pass) {
			return NOK, nil
		}
		if err := store.WriteLine(s.LoginFile(uid), "1"); err != nil {
			return ERR, err
		}
		return OK, nil
	}

	if err := ensureUserSkeleton(s, uid); err != nil {
		return ERR, err
	}
	if err := store.WriteLine(s.PassFile(uid), pass); err != nil {
		return ERR, err
	}
	if err := store.WriteLine(s.LoginFile(uid), "1"); err != nil {
		return ERR, err
	}
	return REG, nil
}

// Logout removes only the login marker; credentials persist. Returns
// UNR if the user doesn't exist, WRP on a password mismatch, NOK if the
// user exists but isn't currently logged in.
func Logout(s *store.Store, uid, pass string) (Result, error) {
	unlock, err := s.Lock()
	if err != nil {
		return ERR, err
	}
	defer unlock()

	if !exists(s, uid) {
		return UNR, nil
	}
	if !checkPassword(s, uid, pass) {
		return WRP, nil
	}
	if !loggedIn(s, uid) {
		return NOK, nil
	}
	if err := removeFile(s.LoginFile(uid)); err != nil {
		return ERR, err
	}
	return OK, nil
}

// Unregister removes both the password file and the login marker;
// CREATED/ and RESERVED/ history is preserved. Only a logged-in user may
// unregister.
func Unregister(s *store.Store, uid, pass string) (Result, error) {
	unlock, err := s.Lock()
	if err != nil {
		return ERR, err
	}
	defer unlock()

	if !exists(s, uid) {
		return UNR, nil
	}
	if !checkPassword(s, uid, pass) {
		return WRP, nil
	}
	if !loggedIn(s, uid) {
		return NOK, nil
	}
	if err := removeFile(s.LoginFile(uid)); err != nil {
		return ERR, err
	}
	if err := removeFile(s.PassFile(uid)); err != nil {
		return ERR, err
	}
	return OK, nil
}

// ChangePassword rewrites the password file in place; login state is
// unaffected. Requires the caller to be currently logged in.
func ChangePassword(s *store.Store, uid, oldPass, newPass string) (Result, error) {
	unlock, err := s.Lock()
	if err != nil {
		return ERR, err
	}
	defer unlock()

	if !exists(s, uid) {
		return NID, nil
	}
	if !loggedIn(s, uid) {
		return NLG, nil
	}
	if !checkPassword(s, uid, oldPass) {
		return NOK, nil
	}
	if err := store.WriteLine(s.PassFile(uid), newPass); err != nil {
		return ERR, err
	}
	return OK, nil
}

// IsLoggedIn reports whether uid is currently logged in. Used by
// Reservations, which conflates "unknown user" with "not logged in".
func IsLoggedIn(s *store.Store, uid string) bool {
	return exists(s, uid) && loggedIn(s, uid)
}

// Exists reports whether uid is a registered user, regardless of login
// state. Used by callers that need to distinguish an unknown user from
// one who is merely logged out.
func Exists(s *store.Store, uid string) bool {
	return exists(s, uid)
}

// CheckPassword reports whether pass matches uid's stored credential.
func CheckPassword(s *store.Store, uid, pass string) bool {
	return exists(s, uid) && checkPassword(s, uid, pass)
}
