// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column the repositories query, so SQL
// built with fmt.Sprintf never drifts from the migrations.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Username      string
	Email         string
	Password      string
	DisplayName   string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     string
	UpdatedAt     string

	// Unique index names, as reported on a unique violation.
	UsernameKey string
	EmailKey    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	Email:         "email",
	Password:      "passwordhash",
	DisplayName:   "displayname",
	AvatarURL:     "avatarurl",
	CoverImageURL: "coverimageurl",
	RefreshToken:  "refreshtoken",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	UsernameKey:   "account_username_key",
	EmailKey:      "account_email_key",
}

// Columns returns the public profile columns. The password hash and refresh
// token fingerprint are deliberately absent.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.DisplayName, t.AvatarURL,
		t.CoverImageURL, t.CreatedAt, t.UpdatedAt,
	}
}
