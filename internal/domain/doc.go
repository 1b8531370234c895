// Package domain defines the core business entities of the application
// along with their validation rules. Entities are plain structs with
// constructors that validate on creation; persistence and transport
// concerns live elsewhere.
package domain
