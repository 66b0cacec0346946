package model

import "time"

// Theater represents a movie theater venue.  A theater contains
// one or more screens.  This struct corresponds to a row in the
// `theaters` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique theater name per city.
//  City      – city where the theater is located.
//  Address   – optional street address.
//  CreatedAt – timestamp when the theater was created.
//  UpdatedAt – timestamp of last update.
type Theater struct {
    ID        uint64    // theaters.id
    Name      string    // theaters.name
    City      string    // theaters.city
    Address   *string   // theaters.address (nullable)
    CreatedAt time.Time // theaters.created_at
    UpdatedAt time.Time // theaters.updated_at
}
