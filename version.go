package pumpbank

// Version identifies the controller build. The serial console reports it
// through the V command and the HTTP health endpoint echoes it.
const Version = "2.4.0"
