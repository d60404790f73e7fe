// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios.
// For example, ErrConflict indicates that an operation cannot proceed
// because of dependent records (deleting a room that still has active
// bookings), while ErrLastAdmin protects the invariant that at least
// one Admin account always remains.
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a category that rooms
// still reference. Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrLastAdmin is returned when a delete or role change would leave the
// system without any Admin user.
var ErrLastAdmin = errors.New("at least one admin must remain")

// ErrEmailExists is returned when a user insert or update collides with
// an existing email address.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when a user insert or update collides
// with an existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrRoomExists is returned when a room insert or renumber collides
// with an existing room id.
var ErrRoomExists = errors.New("room id already exists")

// ErrCategoryExists is returned when a category insert or rename
// collides with an existing category name.
var ErrCategoryExists = errors.New("category name already exists")
