package common

import (
	"fmt"
	"strings"
)

// GetImplementationUID generates a DICOM implementation UID from ImplementationRootUID and Version
// NOTE: implementation UIDs conform to the format:
// <<ROOT>>.<<VERSION>>.<<InstanceType>>
// Where InstanceType = 1 for synthetic data, 0 for others
func GetImplementationUID(synthetic bool) string {
	instanceType := "0"
	if synthetic {
		instanceType = "1"
	}
	return fmt.Sprintf("%s.%s.%s", ImplementationRootUID, Version, instanceType)
}

// UUIDDerivedUID joins `components` in decimal beneath RootUID,
// e.g. UUIDDerivedUID(1, 2, 3) == "2.25.1.2.3".
func UUIDDerivedUID(components ...uint64) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return RootUID + strings.Join(parts, ".")
}
