// Package listing defines the domain model for rental-property listings:
// the listing record itself, its rooms and images, and the closed enum
// vocabularies (property types, amenity keys, room types) shared by the
// search core, the wizard, and the store.
//
// All enums are closed sets known at compile time. Anything that maps an
// enum to a storage column goes through an explicit table, never through
// runtime string construction, so the schema stays statically checkable.
package listing
