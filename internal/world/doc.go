// Package world drives one particle simulation step end to end.
//
// A [World] owns the tracked particle set, the registered particle effects,
// the ordered contact generators, a fixed contact buffer, one force registry
// and one contact resolver. Each frame the external driver calls:
//
//	w.StartFrame()
//	w.RunPhysics(dt)
//
// RunPhysics applies forces, integrates, generates contacts and resolves
// them. Contact generation shares a budget of maxContacts entries between
// generators in registration order; when it runs out, later generators are
// skipped for that frame.
//
// # Thread Safety
//
// World is NOT thread-safe. Hosts running several goroutines must serialise
// every call behind their own lock.
package world
