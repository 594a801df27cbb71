/*
Package tracker assigns temporally stable identities to per-frame object
detections across the cameras of a SmartEye station deployment.

Each camera gets its own Tracker from a Manager.  A Tracker runs one
matching round per frame: live tracks are advanced by a motion model,
priced against the new detections (spatial overlap, plus appearance
descriptor distance when the re-identification model is available), and
matched with a minimum-cost bipartite assignment.  Matched tracks are
refreshed, unmatched confirmed tracks coast on prediction through a
configurable age window so brief occlusions do not change identities,
and unmatched high-confidence detections seed new tentative tracks.

Only confirmed tracks are reported.  Identifiers are prefixed with the
association strategy that produced them ("reid" or "iou") and are never
reused within a camera session.

Frames for a camera must be fed in arrival order by a single goroutine;
the Manager's camera mapping is the only concurrency-safe structure.
*/
package tracker
