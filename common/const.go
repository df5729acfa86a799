package common

// RootUID is the prefix for UIDs derived from UUIDs, as per PS3.5 Annex B.2.
// Every UID minted by this module hangs off it.
const RootUID = "2.25."

// ImplementationRootUID is the fixed UUID-derived root identifying this implementation.
const ImplementationRootUID = RootUID + "302414779946311823174734580294389577538"

// Version equals the current (or aimed for) version of the software.
// It is used commonly in creating ImplementationClassUID(0002,0012)
const Version = "0.3"

// ImplementationVersionName is written to (0002,0013). At most 16 characters.
const ImplementationVersionName = "SIMPLYDICOM_" + Version
