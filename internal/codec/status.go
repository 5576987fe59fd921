package codec

import "strconv"

// statusPhrases maps status codes to reason phrases. Covers the codes the
// native backend emits plus the rest of the common registry.
var statusPhrases = map[int]string{
	100: "Continue",
	101: "Switching Protocols",

	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	206: "Partial Content",

	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",

	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	413: "Payload Too Large",
	415: "Unsupported Media Type",
	422: "Unprocessable Entity",
	429: "Too Many Requests",

	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

// unknownPhrase is the placeholder for codes outside the table.
const unknownPhrase = "Unknown Status"

// StatusText returns the reason phrase for a status code.
func StatusText(code int) string {
	if phrase, ok := statusPhrases[code]; ok {
		return phrase
	}
	return unknownPhrase
}

// FormatStatus returns the full status line fragment, e.g. "200 OK".
func FormatStatus(code int) string {
	return strconv.Itoa(code) + " " + StatusText(code)
}
