// Package embedded provides access to data files compiled into the binary.
package embedded

import _ "embed"

// CommandTableData contains the embedded git command table YAML data.
//
//go:embed commands.yaml
var CommandTableData []byte
