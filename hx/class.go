package hx

import "strings"

// Class identifies the type of an entry's body.
type Class int

const (
	Invalid Class = iota
	EventResDataClass
	WavResDataClass
	SwitchResDataClass
	RandomResDataClass
	ProgramResDataClass
	WaveFileIdObjClass
)

type classInfo struct {
	fragment     string
	crossVersion bool
}

var classTable = map[Class]classInfo{
	EventResDataClass:  {fragment: "EventResData", crossVersion: true},
	WavResDataClass:    {fragment: "WavResData", crossVersion: false},
	SwitchResDataClass: {fragment: "SwitchResData", crossVersion: true},
	RandomResDataClass: {fragment: "RandomResData", crossVersion: true},
	ProgramResDataClass: {fragment: "ProgramResData", crossVersion: true},
	WaveFileIdObjClass: {fragment: "WaveFileIdObj", crossVersion: false},
}

var platformTags = []string{"PC", "GC", "PS2", "PS3", "XBox"}

// FormatClassName builds the serialized "C" + platform-tag? + fragment
// name for a class under a given variant.
func FormatClassName(class Class, variant Variant) string {
	info, ok := classTable[class]
	if !ok {
		return ""
	}
	if info.crossVersion {
		return "C" + info.fragment
	}
	return "C" + variant.PlatformTag() + info.fragment
}

// ParseClassName recovers a Class from its serialized name, stripping a
// recognized platform-tag prefix if present. Unrecognized names map to
// Invalid, which callers should treat as UnknownClass: warn and skip.
func ParseClassName(name string) Class {
	if !strings.HasPrefix(name, "C") {
		return Invalid
	}
	rest := name[1:]
	for _, tag := range platformTags {
		if strings.HasPrefix(rest, tag) {
			rest = strings.TrimPrefix(rest, tag)
			break
		}
	}
	for class, info := range classTable {
		if info.fragment == rest {
			return class
		}
	}
	return Invalid
}

func (c Class) String() string {
	if info, ok := classTable[c]; ok {
		return info.fragment
	}
	return "Invalid"
}
