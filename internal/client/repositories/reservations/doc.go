// Package reservations provides the client-local reservation store used in
// offline mode.
//
// # Data Model
//
// The whole collection is serialized as one JSON array of models.Reservation
// and kept under a single kv key (common.ReservationsStorageKey). Every
// mutation loads the array, changes it and writes it back inside one SQLite
// transaction, so two mutations in the same process never interleave.
//
// Missing or unparsable data reads as an empty collection. Storage I/O errors
// are returned to the caller.
//
// Typical Usage
//
//	store := reservations.NewLocalStore(db, clockwork.NewRealClock(), log)
//	r, _ := store.Create(ctx, models.NewReservationInput{Device: dev, DateFrom: from, DateTo: to})
//	list, _ := store.List(ctx, models.ListFilter{})
//	_, _ = store.Cancel(ctx, r.ID)
package reservations
