// Package models defines the core domain models for Splitpocket.
//
// # Models
//
//   - User: a signed-in account plus its profile (username, default currency)
//   - Group: a set of members sharing expenses, with the viewer's balance
//   - Expense: a single spend, optionally split among group members
//   - Split: one member's share of an expense
//
// # Design Principles
//
// 1. **Plain values**: models carry no behaviour beyond small accessors
// 2. **Avoid circular references**: relationships use ID strings, not pointers
// 3. **Validated at the edge**: the store decodes rows into models and rejects
// malformed records; the validation package normalizes user input
//
// Group balances are maintained outside this service. A Group read for a
// specific member carries that member's balance; nil means "not yet known".
package models
