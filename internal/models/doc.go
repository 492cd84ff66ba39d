// Package models defines the core domain models for chopbill.
//
// # Ledger Entities
//
// The ledger is an event log of money movement inside a group:
//   - Expense: one disbursement by a payer, owned by a Group
//   - ExpenseSplit: one participant's allocated share of an Expense
//   - Settlement: an out-of-band payment from one member to another
//
// Users, Groups, Memberships and GroupInvites describe who may take part.
//
// # Split encodings
//
// Two encodings of split rows coexist in stored data. Under the legacy encoding the
// payer's own row has DueAmount == 0 and PaidAmount holding the payer's share. Under the
// current encoding every row carries the share in DueAmount, the payer's row carries the
// full disbursed amount in PaidAmount, and non-payer rows have PaidAmount == 0.
// Rows are never rewritten; readers resolve the encoding per row through
// calculator.NormalizeSplit.
//
// # Design Principles
//
//  1. Amounts are decimal.Decimal and are never rounded before presentation
//  2. Relationships are ID strings, not pointers
//  3. Entities validate their own shape; cross-entity rules live in the ledger package
package models
