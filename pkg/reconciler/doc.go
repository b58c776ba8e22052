/*
Package reconciler converges appliance state toward declared device specs.

The Reconciler evaluates one state machine per declared device, under exactly
one of four run modes:

  - create: absent devices are created; existing ones are skipped unless the
    replace option is set, in which case the device is replace-patched after
    confirmation (extrahop_id stripped, it is immutable post-creation).
  - append: CSV criteria not already present are added; a device that does not
    exist is a failure, a fully-duplicate row set is a no-op skip.
  - remove: existing criteria subset-matching any CSV row are removed; the
    device may legitimately end up with zero criteria (warned, not blocked).
  - delete: the device is deleted after confirmation; not-found is a skip.

Every decision is computed before any network call, so dry-run and live runs
log identical decision sequences; dry-run merely suppresses the final call.
Failures are absorbed at the operation boundary and become a summary count
plus a log line. The one exception is an authentication rejection, which stops
the remaining devices of the current appliance: repeating the same 401 for
every device would add nothing. Later appliances run normally.

Confirmation is consulted only for replace patches and deletes. Appending and
removing criteria are targeted operations declared explicitly in the input and
proceed without prompting.
*/
package reconciler
