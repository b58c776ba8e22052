/*
Package catalog provides the appliance-scoped read model of custom devices.

Load fetches every custom device with its criteria in one call and builds a
name index for the reconciler. The catalog is read-only after Load and lives
for exactly one appliance pass; nothing leaks between appliances.

FindByName returns the first exact match when multiple devices share a name
and logs the ambiguity. This is documented behavior, not an oversight: the
appliance does not define a tie-break and the tool does not invent one.

The catalog also wraps the two auxiliary queries the audit path needs: the
exact-name device search and the trailing-two-week net-bytes metric query.
*/
package catalog
