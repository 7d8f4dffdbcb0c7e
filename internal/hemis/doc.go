// Package hemis drives white-matter hemisphere extraction for one subject.
//
// A subject moves through pending, reference_resolved, workspace_ready,
// mask_and_classified and extraction_invoked before ending in succeeded or
// failed. Intermediate volumes live in a temporary workspace that is removed
// on every exit path. Each external command is attempted exactly once, and
// failures are logged and returned in the Result rather than propagated, so
// one subject can never abort its siblings.
package hemis
