// Package models defines the core domain models for tabsplit.
//
// # Models
//
//   - Room: one shared receipt session, the member registry plus the item ledger
//   - Item: a single line item on the receipt, with its assignee set
//   - ItemRecord: a raw {name, price, quantity} record from the recognition collaborator
//   - Split, MemberItem: calculated split results for presentation
//
// Members are identified by display name (strings, unique within a room). There are
// no user accounts; a room's name and PIN are supplied by the join collaborator and
// only displayed here.
//
// # Design Principles
//
//  1. Room is an explicit state object. All mutation goes through the transition
//     functions in the room package; models holds only data.
//  2. Item prices are kept as the raw user text while editing. Parsing is deferred
//     to read time (money package) so a half-typed value never breaks arithmetic.
//  3. Avoid circular references: items reference members by name, not pointer.
package models
