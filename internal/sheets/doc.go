// Package sheets reads train movement rows from a Google spreadsheet.
//
// A fetch first checks that the spreadsheet is reachable, then reads the
// configured range with unformatted values and display-formatted dates.
// The first two rows (title and header) are dropped and every remaining
// row is mapped positionally onto the twelve movement columns. Client
// failures are classified into the application error kinds so handlers
// can answer with a matching status.
package sheets
