package abi

// Class tells the call engine how an argument occupies its register/stack word
// under the Windows x64 convention.
type Class uint8

const (
	// ClassWord is an integer or pointer in a general purpose word.
	ClassWord Class = iota
	// ClassFloat is an IEEE value; the dispatcher mirrors the first four words into XMM0-3.
	ClassFloat
	// ClassPacked is a struct of 1, 2, 4 or 8 bytes passed by value in one word.
	ClassPacked
	// ClassIndirect is any other struct, passed as a pointer to a caller-owned copy.
	ClassIndirect
)

func (c Class) String() string {
	switch c {
	case ClassWord:
		return "word"
	case ClassFloat:
		return "float"
	case ClassPacked:
		return "packed"
	case ClassIndirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// Classify maps a descriptor to its Windows x64 argument class.
func Classify(d Descriptor) Class {
	switch d.Kind {
	case DescFloat:
		return ClassFloat
	case DescStruct:
		switch d.Size {
		case 1, 2, 4, 8:
			return ClassPacked
		default:
			return ClassIndirect
		}
	default:
		return ClassWord
	}
}
