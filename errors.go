package asrc

import "errors"

// ErrorCode is the numeric status reported by the converter. Values match
// the status codes used by firmware ASRC implementations, so they can be
// passed across such interfaces unchanged.
type ErrorCode int

// Status codes.
const (
	CodeOK                     ErrorCode = 0
	CodeInitFailed             ErrorCode = -1
	CodeUpdateFsFailed         ErrorCode = -2
	CodeInvalidPointer         ErrorCode = -3
	CodeInvalidBufferPointer   ErrorCode = -4
	CodeInvalidSampleRate      ErrorCode = -5
	CodeInvalidConversionRatio ErrorCode = -6
	CodeInvalidBitDepth        ErrorCode = -7
	CodeInvalidNumChannels     ErrorCode = -8
	CodeInvalidBufferLength    ErrorCode = -9
	CodeInvalidFrameSize       ErrorCode = -10
	CodeInvalidClockSkew       ErrorCode = -11
	CodeInvalidControlMode     ErrorCode = -12
	CodeFailedPushMode         ErrorCode = -13
	CodeFailedPullMode         ErrorCode = -14
	CodeInvalidFilterLength    ErrorCode = -15
)

var codeText = map[ErrorCode]string{
	CodeOK:                     "ok",
	CodeInitFailed:             "not initialised",
	CodeUpdateFsFailed:         "conversion ratio not updated for this control cycle",
	CodeInvalidPointer:         "invalid pointer",
	CodeInvalidBufferPointer:   "invalid buffer",
	CodeInvalidSampleRate:      "invalid sample rate",
	CodeInvalidConversionRatio: "invalid conversion ratio",
	CodeInvalidBitDepth:        "invalid bit depth",
	CodeInvalidNumChannels:     "invalid number of channels",
	CodeInvalidBufferLength:    "invalid buffer length",
	CodeInvalidFrameSize:       "invalid frame size",
	CodeInvalidClockSkew:       "invalid clock skew",
	CodeInvalidControlMode:     "invalid control mode",
	CodeFailedPushMode:         "push mode failed",
	CodeFailedPullMode:         "pull mode failed",
	CodeInvalidFilterLength:    "invalid filter length",
}

// String returns a short description of the code.
func (e ErrorCode) String() string {
	if s, ok := codeText[e]; ok {
		return s
	}
	return "unknown error"
}

// Error implements error.
func (e ErrorCode) Error() string { return "asrc: " + e.String() }

// Sentinel errors, one per status code. Functions wrap them with detail;
// test with errors.Is or recover the code with CodeOf.
var (
	// Configuration errors.
	ErrInvalidPointer         error = CodeInvalidPointer
	ErrInvalidBufferPointer   error = CodeInvalidBufferPointer
	ErrInvalidSampleRate      error = CodeInvalidSampleRate
	ErrInvalidConversionRatio error = CodeInvalidConversionRatio
	ErrInvalidBitDepth        error = CodeInvalidBitDepth
	ErrInvalidNumChannels     error = CodeInvalidNumChannels
	ErrInvalidBufferLength    error = CodeInvalidBufferLength
	ErrInvalidFrameSize       error = CodeInvalidFrameSize
	ErrInvalidFilterLength    error = CodeInvalidFilterLength

	// Runtime and control errors.
	ErrInitFailed         error = CodeInitFailed
	ErrUpdateFsFailed     error = CodeUpdateFsFailed
	ErrInvalidClockSkew   error = CodeInvalidClockSkew
	ErrInvalidControlMode error = CodeInvalidControlMode

	// Processing errors.
	ErrFailedPushMode error = CodeFailedPushMode
	ErrFailedPullMode error = CodeFailedPullMode
)

// CodeOf returns the status code carried by err: CodeOK for nil and
// CodeInitFailed for errors that do not come from this package.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}
	return CodeInitFailed
}
