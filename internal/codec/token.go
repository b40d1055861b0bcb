package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/quocdat202/pivot/internal/errors"
	"github.com/quocdat202/pivot/internal/model"
)

// tokenPrefix marks the token layout version.
const tokenPrefix = "p1."

// maxTokenPayload bounds the decompressed size of a token.
const maxTokenPayload = 1 << 20

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

// zstdCoders returns the shared encoder and decoder. EncodeAll and
// DecodeAll are safe for concurrent use.
func zstdCoders() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if zstdErr != nil {
			zstdErr = fmt.Errorf("creating zstd encoder: %w", zstdErr)
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxTokenPayload))
		if zstdErr != nil {
			zstdErr = fmt.Errorf("creating zstd decoder: %w", zstdErr)
		}
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

type tokenCodec struct{}

func (tokenCodec) Name() string { return NameToken }

func (tokenCodec) Marshal(s model.PivotSettings) ([]byte, error) {
	packed, err := Msgpack.Marshal(s)
	if err != nil {
		return nil, err
	}
	enc, _, err := zstdCoders()
	if err != nil {
		return nil, err
	}
	compressed := enc.EncodeAll(packed, make([]byte, 0, len(packed)))

	out := make([]byte, len(tokenPrefix)+base64.RawURLEncoding.EncodedLen(len(compressed)))
	copy(out, tokenPrefix)
	base64.RawURLEncoding.Encode(out[len(tokenPrefix):], compressed)
	return out, nil
}

func (tokenCodec) Unmarshal(data []byte) (model.PivotSettings, error) {
	token := strings.TrimSpace(string(data))
	if token == "" {
		return model.PivotSettings{}, emptyInput("codec.Token")
	}
	payload, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return model.PivotSettings{}, errors.NewInvalidInputError("codec.Token", "unrecognised token version")
	}

	compressed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return model.PivotSettings{}, fmt.Errorf("decoding token: %w", err)
	}
	_, dec, err := zstdCoders()
	if err != nil {
		return model.PivotSettings{}, err
	}
	packed, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return model.PivotSettings{}, fmt.Errorf("decompressing token: %w", err)
	}
	return Msgpack.Unmarshal(packed)
}
