/*
Package inventory loads run inputs: the appliance list and desired-state rows.

Appliance inventories come in two forms. The CSV form matches the historical
hostname,api_key layout; the YAML form nests targets under an appliances key.
Both tolerate a UTF-8 byte order mark, which Excel likes to prepend.

Desired-state CSVs are flat rows keyed by device name. LoadSpecs folds rows
sharing a name into one DeviceSpec: the first row supplies the metadata, every
row may contribute one criteria record. Validation failures (malformed
integers, out-of-range ports or VLANs, invalid ipaddr_peer combinations) drop
the offending row with a warning and processing continues; a bad row is never
fatal and never silently coerced.
*/
package inventory
