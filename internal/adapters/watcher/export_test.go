package watcher

// ConvertEvent exports convertEvent for testing.
var ConvertEvent = convertEvent
