package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// hashDomain separates faucet work hashes from any other sha256 use of the
// same inputs.
const hashDomain = "veil-faucet-pow-v1"

const (
	// DefaultDifficulty is the number of leading zero hex digits required
	// when no explicit difficulty is configured.
	DefaultDifficulty = 4

	// maxDifficulty caps client-side work at roughly 16^8 hashes.
	maxDifficulty = 8

	// ChallengeTTL is how long an issued challenge stays redeemable.
	ChallengeTTL = 5 * time.Minute

	// MaxNonceLength bounds attacker-chosen nonce strings.
	MaxNonceLength = 64

	// clockSkewTolerance allows for drift between the faucet and clients.
	clockSkewTolerance = 60
)

var (
	ErrResourceMismatch  = errors.New("solution resource does not match challenge")
	ErrTimestampMismatch = errors.New("solution timestamp does not match challenge")
	ErrChallengeExpired  = errors.New("challenge has expired")
	ErrFutureChallenge   = errors.New("challenge timestamp is in the future")
	ErrNonceTooLong      = errors.New("nonce too long")
	ErrInsufficientWork  = errors.New("hash does not meet difficulty requirement")
)

// ProofOfWork issues and verifies hashcash-style challenges gating faucet
// drips to veil addresses.
type ProofOfWork struct {
	difficulty int
}

// Challenge is handed to a client before it may request funds.
type Challenge struct {
	Resource   string `json:"resource"`
	Timestamp  int64  `json:"timestamp"`
	Difficulty int    `json:"difficulty"`
	ExpiresAt  int64  `json:"expires_at"`
}

// Solution is the client's answer to a Challenge.
type Solution struct {
	Resource  string `json:"resource"`
	Timestamp int64  `json:"timestamp"`
	Nonce     string `json:"nonce"`
}

// NewProofOfWork creates a validator at the given difficulty, clamped to a
// sane range.
func NewProofOfWork(difficulty int) *ProofOfWork {
	if difficulty < 1 {
		difficulty = DefaultDifficulty
	}
	if difficulty > maxDifficulty {
		difficulty = maxDifficulty
	}
	return &ProofOfWork{difficulty: difficulty}
}

// GenerateChallenge creates a fresh challenge bound to a resource, typically
// the requesting veil account address.
func (p *ProofOfWork) GenerateChallenge(resource string) *Challenge {
	now := time.Now()
	return &Challenge{
		Resource:   resource,
		Timestamp:  now.Unix(),
		Difficulty: p.difficulty,
		ExpiresAt:  now.Add(ChallengeTTL).Unix(),
	}
}

// VerifySolution checks a solution against its challenge: the binding fields
// must match, the challenge must still be live, and the work hash must carry
// the required leading zeros.
func (p *ProofOfWork) VerifySolution(challenge *Challenge, solution *Solution) error {
	if solution.Resource != challenge.Resource {
		return ErrResourceMismatch
	}
	if solution.Timestamp != challenge.Timestamp {
		return ErrTimestampMismatch
	}

	now := time.Now().Unix()
	if now > challenge.ExpiresAt {
		return ErrChallengeExpired
	}
	if challenge.Timestamp > now+clockSkewTolerance {
		return ErrFutureChallenge
	}
	if len(solution.Nonce) > MaxNonceLength {
		return ErrNonceTooLong
	}

	if !meetsDifficulty(workHash(solution.Resource, solution.Timestamp, solution.Nonce), challenge.Difficulty) {
		return fmt.Errorf("invalid proof-of-work: %w", ErrInsufficientWork)
	}
	return nil
}

// ComputeSolution brute-forces a valid nonce. Exists for tests and as a
// reference for client implementations; the dashboard solves this in JS.
func (p *ProofOfWork) ComputeSolution(challenge *Challenge) (*Solution, error) {
	for nonce := 0; nonce < 10_000_000; nonce++ {
		nonceStr := strconv.Itoa(nonce)
		if meetsDifficulty(workHash(challenge.Resource, challenge.Timestamp, nonceStr), challenge.Difficulty) {
			return &Solution{
				Resource:  challenge.Resource,
				Timestamp: challenge.Timestamp,
				Nonce:     nonceStr,
			}, nil
		}
	}
	return nil, fmt.Errorf("failed to compute solution after maximum attempts")
}

// GetDifficulty returns the current difficulty level.
func (p *ProofOfWork) GetDifficulty() int {
	return p.difficulty
}

// SetDifficulty updates the difficulty level, clamped to the valid range.
func (p *ProofOfWork) SetDifficulty(difficulty int) {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > maxDifficulty {
		difficulty = maxDifficulty
	}
	p.difficulty = difficulty
}

// EstimateWorkTime estimates solve time at a difficulty, assuming roughly 1M
// hashes per second of client-side JS.
func EstimateWorkTime(difficulty int) time.Duration {
	attempts := (1 << (difficulty * 4)) / 2
	seconds := attempts / 1_000_000
	return time.Duration(seconds) * time.Second
}

func workHash(resource string, timestamp int64, nonce string) string {
	data := fmt.Sprintf("%s:%s:%d:%s", hashDomain, resource, timestamp, nonce)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func meetsDifficulty(hashHex string, difficulty int) bool {
	return strings.HasPrefix(hashHex, strings.Repeat("0", difficulty))
}
