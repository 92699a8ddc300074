// README: Monthly advice allowance per user.
package aiusage

import "errors"

// ErrInsufficientTokens is returned when a user has no tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of advice requests granted per month.
const DefaultTokens = 100

const monthLayout = "2006-01"
