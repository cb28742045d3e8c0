package healthdes

// Version is the release of the library and the healthdes command.
const Version = "0.1.0"
