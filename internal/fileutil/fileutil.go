// Package fileutil holds the permission modes used when creating merge targets.
package fileutil

import "os"

// TargetFileMode is the mode requested for newly created target files.
// The process umask is applied on top, so targets get the platform's
// default permissions for new files.
const TargetFileMode os.FileMode = 0o666

// TargetDirMode is the mode requested for missing parent directories of a
// target, also subject to the umask.
const TargetDirMode os.FileMode = 0o777
