package model

// Credential is the institutional account used both for SMB discovery and
// for the device URIs handed to the spooler.
type Credential struct {
	Username string
	Password string
}

func (c Credential) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Installed pairs a remote share name with the local queue name it was
// registered under. The spooler is authoritative; values of this type are
// snapshots of a single listing call.
type Installed struct {
	RemoteName string
	LocalName  string
}
