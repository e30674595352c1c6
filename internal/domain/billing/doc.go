// Package billing provides domain models for customer-facing documents in a
// multi-tenant accounting application.
//
// This package implements the document bounded context, which is responsible for:
//   - Estimates, sales invoices and purchase bills with their line items
//   - GST tax splitting (IGST vs CGST+SGST) based on place of supply
//   - Document numbering with fiscal-year scoped sequences
//   - Document lifecycles (draft, finalize, payment, void)
//   - Append-only payment records against finalized documents
//
// Key Aggregates:
//   - Estimate: A quote that can be accepted and converted into an invoice
//   - SalesInvoice: A receivable document, posted to the ledger on finalize
//   - PurchaseBill: A payable document, posted to the ledger on submit
//
// Value Objects:
//   - LineItem: A priced line with its computed tax components
//   - TaxComponents: Per-kind GST amounts attached to a line
//   - Payment: An immutable payment record
//
// The billing domain integrates with:
//   - Ledger domain: Finalized documents produce balanced journal entries
//   - Partner domain: Customers and suppliers referenced by documents
package billing
