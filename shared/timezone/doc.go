// Package timezone pins every clock read and calendar comparison to the
// hotel's configured zone (APP_TIMEZONE, IANA names such as "Asia/Jakarta").
//
// Offers are compared by calendar date and analytics windows start on the
// first of a month, so both go through Date and StartOfMonth rather than
// raw time arithmetic.
package timezone
