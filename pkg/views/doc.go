// Package views provides net/http handlers that render templates and drive
// model CRUD through derived forms.
//
// Views hold configuration only. Request data (context maps, render options,
// loaded instances) is built per request, so a single view value can serve
// concurrent requests. Persistence goes through store.Session and the
// instance lookups are small capability interfaces; a view missing the
// capability it needs answers 500 with ErrNotImplemented.
package views
