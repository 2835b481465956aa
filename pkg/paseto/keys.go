package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local (encrypted)
	ModePublic Mode = "public" // v4.public (signed)
)

type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

type KeyStrings struct {
	Mode Mode

	SymmetricHex string

	SecretHex string
	PublicHex string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		h := strings.TrimSpace(in.SymmetricHex)
		if h == "" {
			return Keys{}, ErrConfig{Msg: "local mode requires local_key_hex"}
		}
		k, err := paseto.V4SymmetricKeyFromHex(h)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid symmetric key hex: " + err.Error()}
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		out := Keys{Mode: ModePublic}

		// A secret key alone is enough; its public half is derived.
		if secHex := strings.TrimSpace(in.SecretHex); secHex != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(secHex)
			if err != nil {
				return Keys{}, ErrConfig{Msg: "invalid secret key hex: " + err.Error()}
			}
			pk := sk.Public()
			out.Secret, out.Public = &sk, &pk
		}
		if pubHex := strings.TrimSpace(in.PublicHex); pubHex != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(pubHex)
			if err != nil {
				return Keys{}, ErrConfig{Msg: "invalid public key hex: " + err.Error()}
			}
			out.Public = &pk
		}

		if out.Public == nil {
			return Keys{}, ErrConfig{Msg: "public mode requires secret_key_hex and/or public_key_hex"}
		}
		return out, nil

	default:
		return Keys{}, ErrConfig{Msg: "unknown mode (use local|public)"}
	}
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}

// GenerateKeyHex returns fresh key material for the given mode, formatted
// for the authentication.paseto section of the config file.
func GenerateKeyHex(mode Mode) (map[string]string, error) {
	switch mode {
	case ModeLocal:
		k := NewLocalKeys()
		return map[string]string{"local_key_hex": k.Symmetric.ExportHex()}, nil
	case ModePublic:
		k := NewPublicKeys()
		return map[string]string{
			"secret_key_hex": k.Secret.ExportHex(),
			"public_key_hex": k.Public.ExportHex(),
		}, nil
	default:
		return nil, ErrConfig{Msg: "unknown mode (use local|public)"}
	}
}
