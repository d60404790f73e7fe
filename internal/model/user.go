package model

// User represents an application user record as stored in the
// `userinfo` table. The password column may hold a legacy plain or
// SHA-256 value until the user's next successful login upgrades it
// to bcrypt; the repository layer never hands it to HTTP responses.
//
// Fields:
//  ID         – primary key identifier (userinfo.userid).
//  FirstName  – given name.
//  MiddleName – optional middle name.
//  LastName   – family name.
//  Username   – unique login name.
//  Email      – unique email address.
//  Password   – stored credential (bcrypt once migrated).
//  UserType   – role string: Admin, Incharge or Client.
//  Contact    – phone/contact string copied onto bookings.
//  Gender     – free-form gender string.
//  Image      – profile image file name.
type User struct {
	ID         uint64 `json:"userid"`   // userinfo.userid
	FirstName  string `json:"fname"`    // userinfo.fname
	MiddleName string `json:"mname"`    // userinfo.mname
	LastName   string `json:"lname"`    // userinfo.lname
	Username   string `json:"username"` // userinfo.username
	Email      string `json:"email"`    // userinfo.email
	Password   string `json:"-"`        // userinfo.password, never serialized
	UserType   string `json:"usertype"` // userinfo.usertype (Admin | Incharge | Client)
	Contact    string `json:"contact"`  // userinfo.contact
	Gender     string `json:"gender"`   // userinfo.gender
	Image      string `json:"image"`    // userinfo.image
}
