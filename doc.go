// Package ganhos converts broker sale records into the per-lot capital-gains
// rows required for Brazilian personal tax accounting.
//
// A sale of foreign shares is settled against one or more historical
// acquisition lots. The package reconciles the reported sale quantity with
// the lot quantities, attaches historical USD/BRL exchange rates (the
// sale-date bid rate for proceeds, each lot's own acquisition-date ask rate
// for cost basis), distributes proceeds and costs proportionally across lots
// with an exact-sum guarantee, and derives realized profit per lot in both
// currencies.
//
// The package also imports ticker-grouped broker CSV exports and emits the
// Bastter System import format, and fetches official PTAX dollar quotes from
// the Banco Central do Brasil.
package ganhos
