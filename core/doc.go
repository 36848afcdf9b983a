// Package core defines the domain contracts shared by every folioagent
// component: role-based conversation content with polymorphic parts,
// persisted session turns, and the per-invocation execution context that
// tools receive.
//
// Keeping these contracts in one dependency-free package lets the storage,
// model, tool and orchestration layers evolve independently while agreeing
// on the same message and invocation shapes.
package core
