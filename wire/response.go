package wire

import "fmt"

// Response line lengths for the fixed-size shapes.
const (
	readResponseLen  = 7 // R<AA><VVVV>
	writeResponseLen = 5 // W<AA>OK
	registerErrorLen = 5 // E1R<AA> or E1W<AA>
)

// ResponseKind identifies the type of a response line.
type ResponseKind byte

const (
	// ResponseRead is a successful read reply (R<AA><VVVV>).
	ResponseRead ResponseKind = iota

	// ResponseWriteOK is a successful write reply (W<AA>OK).
	ResponseWriteOK

	// ResponseSaveOK is a successful save-to-flash reply (SOK).
	ResponseSaveOK

	// ResponseLoadOK is a successful load-from-flash reply (LOK).
	ResponseLoadOK

	// ResponseReadError reports a failed register read (E1R<AA>).
	ResponseReadError

	// ResponseWriteError reports a failed register write (E1W<AA>).
	ResponseWriteError

	// ResponseBadCommand reports a command the unit could not parse (E0).
	ResponseBadCommand
)

// String returns a human-readable name for the response kind.
func (k ResponseKind) String() string {
	switch k {
	case ResponseRead:
		return "read"
	case ResponseWriteOK:
		return "writeOK"
	case ResponseSaveOK:
		return "saveOK"
	case ResponseLoadOK:
		return "loadOK"
	case ResponseReadError:
		return "readError"
	case ResponseWriteError:
		return "writeError"
	case ResponseBadCommand:
		return "badCommand"
	default:
		return "unknown"
	}
}

// Response is a decoded response line.
//
// Addr is meaningful for read, write and register-error responses;
// Value only for ResponseRead.
type Response struct {
	Kind  ResponseKind
	Addr  uint8
	Value uint16
}

// IsError reports whether the response is one of the error replies.
func (r Response) IsError() bool {
	return r.Kind == ResponseReadError || r.Kind == ResponseWriteError || r.Kind == ResponseBadCommand
}

// ParseResponse decodes a response-classified line.
//
// It returns an error wrapping ErrInvalidResponse, carrying the offending
// line, when the line matches no response shape.
func ParseResponse(line string) (Response, error) {
	switch line {
	case "SOK":
		return Response{Kind: ResponseSaveOK}, nil
	case "LOK":
		return Response{Kind: ResponseLoadOK}, nil
	case "E0":
		return Response{Kind: ResponseBadCommand}, nil
	}

	if len(line) == 0 {
		return Response{}, fmt.Errorf("%w: empty line", ErrInvalidResponse)
	}

	switch line[0] {
	case 'R':
		if len(line) != readResponseLen {
			return Response{}, fmt.Errorf("%w: %q", ErrInvalidResponse, line)
		}
		addr, err := parseHexByte(line[1:3])
		if err != nil {
			return Response{}, fmt.Errorf("%w: bad address in %q", ErrInvalidResponse, line)
		}
		value, err := parseHexWord(line[3:7])
		if err != nil {
			return Response{}, fmt.Errorf("%w: bad value in %q", ErrInvalidResponse, line)
		}

		return Response{Kind: ResponseRead, Addr: addr, Value: value}, nil

	case 'W':
		if len(line) != writeResponseLen || line[3:5] != "OK" {
			return Response{}, fmt.Errorf("%w: %q", ErrInvalidResponse, line)
		}
		addr, err := parseHexByte(line[1:3])
		if err != nil {
			return Response{}, fmt.Errorf("%w: bad address in %q", ErrInvalidResponse, line)
		}

		return Response{Kind: ResponseWriteOK, Addr: addr}, nil

	case 'E':
		if len(line) != registerErrorLen || line[1] != '1' {
			return Response{}, fmt.Errorf("%w: %q", ErrInvalidResponse, line)
		}
		addr, err := parseHexByte(line[3:5])
		if err != nil {
			return Response{}, fmt.Errorf("%w: bad address in %q", ErrInvalidResponse, line)
		}

		switch line[2] {
		case 'R':
			return Response{Kind: ResponseReadError, Addr: addr}, nil
		case 'W':
			return Response{Kind: ResponseWriteError, Addr: addr}, nil
		}

		return Response{}, fmt.Errorf("%w: %q", ErrInvalidResponse, line)
	}

	return Response{}, fmt.Errorf("%w: %q", ErrInvalidResponse, line)
}
