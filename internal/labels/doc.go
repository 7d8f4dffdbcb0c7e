// Package labels converts raw fetal brain region segmentations into the
// inputs extract_wm_hemispheres_fetus expects: a binary brain mask and a
// four-class (BG/CSF/GM/WM) classified volume.
//
// The rule table is the single source for both the per-voxel Classify
// function and the minccalc expression handed to the external calculator,
// so the two cannot drift apart.
package labels
