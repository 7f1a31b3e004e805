// Package events decouples the service layer from background
// processing. Services emit an Event describing work they want done
// (for example enriching a newly created task) and registered handlers
// translate those events into runnable background tasks.
package events
