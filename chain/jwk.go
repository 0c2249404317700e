// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"

	"github.com/ava-labs/movesdk/codec"
)

// JwkID identifies a JWK by OIDC provider and key id.
type JwkID struct {
	Iss string `json:"iss"`
	Kid string `json:"kid"`
}

// Jwk is an RFC 7517 JSON web key, RSA parameters only.
type Jwk struct {
	Kty string `json:"kty"`
	E   string `json:"e"`
	N   string `json:"n"`
	Alg string `json:"alg"`
}

// ActiveJwk is a JWK together with the most recent epoch in which it was
// validated.
type ActiveJwk struct {
	JwkID JwkID
	Jwk   Jwk
	Epoch uint64
}

func (j ActiveJwk) marshal(p *codec.Packer) {
	p.PackString(j.JwkID.Iss)
	p.PackString(j.JwkID.Kid)
	p.PackString(j.Jwk.Kty)
	p.PackString(j.Jwk.E)
	p.PackString(j.Jwk.N)
	p.PackString(j.Jwk.Alg)
	p.PackUint64(j.Epoch)
}

func unmarshalActiveJwk(p *codec.Packer) (ActiveJwk, error) {
	var j ActiveJwk
	j.JwkID.Iss = p.UnpackString(-1)
	j.JwkID.Kid = p.UnpackString(-1)
	j.Jwk.Kty = p.UnpackString(-1)
	j.Jwk.E = p.UnpackString(-1)
	j.Jwk.N = p.UnpackString(-1)
	j.Jwk.Alg = p.UnpackString(-1)
	j.Epoch = p.UnpackUint64()
	if err := p.Err(); err != nil {
		return ActiveJwk{}, err
	}
	return j, nil
}

func marshalActiveJwks(p *codec.Packer, jwks []ActiveJwk) {
	p.PackLen(len(jwks))
	for _, j := range jwks {
		j.marshal(p)
	}
}

func unmarshalActiveJwks(p *codec.Packer) ([]ActiveJwk, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	jwks := make([]ActiveJwk, 0, count)
	for i := 0; i < count; i++ {
		j, err := unmarshalActiveJwk(p)
		if err != nil {
			return nil, err
		}
		jwks = append(jwks, j)
	}
	return jwks, nil
}

type activeJwkJSON struct {
	JwkID JwkID  `json:"jwk_id"`
	Jwk   Jwk    `json:"jwk"`
	Epoch uint64 `json:"epoch,string"`
}

func (j ActiveJwk) MarshalJSON() ([]byte, error) {
	return json.Marshal(activeJwkJSON{JwkID: j.JwkID, Jwk: j.Jwk, Epoch: j.Epoch})
}

func (j *ActiveJwk) UnmarshalJSON(b []byte) error {
	var v activeJwkJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	j.JwkID = v.JwkID
	j.Jwk = v.Jwk
	j.Epoch = v.Epoch
	return nil
}
