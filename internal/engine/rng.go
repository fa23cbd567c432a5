package engine

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
)

// ByteGenerator produces a deterministic byte stream from HMAC-SHA256 over
// (serverSeed, clientSeed, nonce). Every random outcome in the casino is
// derived from this stream.
type ByteGenerator struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator creates a generator positioned at the given cursor.
func NewByteGenerator(serverSeed, clientSeed string, nonce uint64, cursor uint64) *ByteGenerator {
	bg := &ByteGenerator{
		serverSeed:   serverSeed,
		clientSeed:   clientSeed,
		nonce:        nonce,
		currentRound: cursor / 32,
		currentPos:   int(cursor % 32),
	}
	bg.generateRound()
	return bg
}

// Next returns the next byte from the stream.
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= 32 {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}
	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat consumes exactly 4 bytes and returns a float in [0, 1).
func (bg *ByteGenerator) NextFloat() float64 {
	b0 := bg.Next()
	b1 := bg.Next()
	b2 := bg.Next()
	b3 := bg.Next()
	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.serverSeed))
	message := fmt.Sprintf("%s:%d:%d", bg.clientSeed, bg.nonce, bg.currentRound)
	h.Write([]byte(message))
	copy(bg.buffer[:], h.Sum(nil))
}

func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// Floats generates count floats starting from the given cursor.
func Floats(serverSeed, clientSeed string, nonce uint64, cursor uint64, count int) []float64 {
	bg := NewByteGenerator(serverSeed, clientSeed, nonce, cursor)
	floats := make([]float64, count)
	for i := 0; i < count; i++ {
		floats[i] = bg.NextFloat()
	}
	return floats
}

// Stream is a stateful float source for one round. It satisfies the
// games.FloatSource contract: each call advances the underlying byte stream.
type Stream struct {
	bg *ByteGenerator
}

// NewStream creates a float stream for a single round.
func NewStream(serverSeed, clientSeed string, nonce uint64) *Stream {
	return &Stream{bg: NewByteGenerator(serverSeed, clientSeed, nonce, 0)}
}

// NextFloat returns the next float in [0, 1).
func (s *Stream) NextFloat() float64 {
	return s.bg.NextFloat()
}

// Session holds the seed pair for one play session and hands out a fresh
// Stream per round, bumping the nonce each time.
type Session struct {
	mu         sync.Mutex
	serverSeed string
	clientSeed string
	nonce      uint64
}

// NewSession creates a session with a random server seed.
func NewSession(clientSeed string) (*Session, error) {
	seed, err := randomServerSeed()
	if err != nil {
		return nil, err
	}
	return &Session{serverSeed: seed, clientSeed: clientSeed}, nil
}

// NewSessionWithSeeds creates a session with explicit seeds. Used by tests
// and replay tooling; normal startup should use NewSession.
func NewSessionWithSeeds(serverSeed, clientSeed string) *Session {
	return &Session{serverSeed: serverSeed, clientSeed: clientSeed}
}

// NextRound returns the float stream for the next round.
func (s *Session) NextRound() *Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonce++
	return NewStream(s.serverSeed, s.clientSeed, s.nonce)
}

// ClientSeed returns the session's client seed.
func (s *Session) ClientSeed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientSeed
}

// Nonce returns the nonce of the most recently started round.
func (s *Session) Nonce() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}

// ServerSeedHash returns the SHA-256 hash of the active server seed, so the
// seed can be committed to before any round is played.
func (s *Session) ServerSeedHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash := sha256.Sum256([]byte(s.serverSeed))
	return hex.EncodeToString(hash[:])
}

func randomServerSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate server seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
