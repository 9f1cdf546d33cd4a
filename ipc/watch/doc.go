// Package watch implements a polling memory watcher on top of the
// batch builder. Each tick reads all subscribed addresses in a single
// multi-command message and invokes callbacks for values that changed
// since the previous tick.
package watch
