package models

// User is a stored account. Password holds the bcrypt digest and is never
// serialized; ProfilePic references the blob store path when a picture has
// been uploaded.
type User struct {
	Username   string   `json:"username"`
	Password   string   `json:"-"`
	Lat        *float64 `json:"lat"`
	Long       *float64 `json:"long"`
	Bio        *string  `json:"bio"`
	ProfilePic *string  `json:"-"`
}

// Public returns the client-visible view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		Username: u.Username,
		Lat:      u.Lat,
		Long:     u.Long,
		Bio:      u.Bio,
	}
}

// PublicUser is the shape returned by every user-listing endpoint.
type PublicUser struct {
	Username string   `json:"username"`
	Lat      *float64 `json:"lat"`
	Long     *float64 `json:"long"`
	Bio      *string  `json:"bio"`
}
