// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/consts"
)

// rawGenesisObject is the only genesis object variant today. The
// discriminant is reserved the same way the transaction version tag is.
const rawGenesisObject uint64 = 0

// Binary discriminants of the object data variants.
const (
	structObjectData uint64 = iota
	packageObjectData
)

// Binary discriminants of the owner variants.
const (
	addressOwnerKind uint64 = iota
	objectOwnerKind
	sharedOwnerKind
	immutableOwnerKind
)

// GenesisObject is one object of the initial chain state.
type GenesisObject struct {
	Data  ObjectData
	Owner Owner
}

// ObjectData is the payload of a genesis object: either a Move struct
// instance or a published package.
type ObjectData interface {
	json.Marshaler

	objectDataName() string
}

// MoveStruct is a serialized Move struct instance.
type MoveStruct struct {
	Type              StructTag
	HasPublicTransfer bool
	Version           uint64
	Contents          []byte
}

// MovePackage is a published package: its compiled modules plus the
// tables tracking where types originated and how upgrades are linked.
type MovePackage struct {
	ID              ObjectID
	Version         uint64
	Modules         map[Identifier][]byte
	TypeOriginTable []TypeOrigin
	LinkageTable    map[ObjectID]UpgradeInfo
}

// TypeOrigin records the package that first defined a struct.
type TypeOrigin struct {
	ModuleName Identifier `json:"module_name"`
	StructName Identifier `json:"struct_name"`
	Package    ObjectID   `json:"package"`
}

// UpgradeInfo points a package at its upgraded replacement.
type UpgradeInfo struct {
	UpgradedID      ObjectID `json:"upgraded_id"`
	UpgradedVersion uint64   `json:"upgraded_version,string"`
}

// Owner states who may use an object.
type Owner interface {
	json.Marshaler

	ownerName() string
}

// AddressOwner marks an object exclusively owned by an address.
type AddressOwner struct {
	Address codec.Address
}

// ObjectOwner marks an object owned by another object.
type ObjectOwner struct {
	ObjectID ObjectID
}

// SharedOwner marks an object usable by anyone, tagged with the version
// at which it became shared.
type SharedOwner struct {
	InitialSharedVersion uint64
}

// ImmutableOwner marks an object nobody can mutate.
type ImmutableOwner struct{}

func (MoveStruct) objectDataName() string  { return "struct" }
func (MovePackage) objectDataName() string { return "package" }

func (AddressOwner) ownerName() string   { return "address" }
func (ObjectOwner) ownerName() string    { return "object" }
func (SharedOwner) ownerName() string    { return "shared" }
func (ImmutableOwner) ownerName() string { return "immutable" }

func marshalGenesisObject(p *codec.Packer, o GenesisObject) {
	p.PackUleb(rawGenesisObject)
	marshalObjectData(p, o.Data)
	marshalOwner(p, o.Owner)
}

func unmarshalGenesisObject(p *codec.Packer) (GenesisObject, error) {
	variant := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return GenesisObject{}, err
	}
	if variant != rawGenesisObject {
		return GenesisObject{}, fmt.Errorf("%w: genesis object %d", ErrUnknownVariant, variant)
	}
	data, err := unmarshalObjectData(p)
	if err != nil {
		return GenesisObject{}, err
	}
	owner, err := unmarshalOwner(p)
	if err != nil {
		return GenesisObject{}, err
	}
	return GenesisObject{Data: data, Owner: owner}, nil
}

func marshalObjectData(p *codec.Packer, d ObjectData) {
	switch v := d.(type) {
	case MoveStruct:
		p.PackUleb(structObjectData)
		v.Type.marshal(p)
		p.PackBool(v.HasPublicTransfer)
		p.PackUint64(v.Version)
		p.PackBytes(v.Contents)
	case MovePackage:
		p.PackUleb(packageObjectData)
		marshalMovePackage(p, v)
	default:
		p.SetErr(fmt.Errorf("%w: object data %T", ErrUnknownVariant, d))
	}
}

func unmarshalObjectData(p *codec.Packer) (ObjectData, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case structObjectData:
		var v MoveStruct
		tag, err := unmarshalStructTag(p)
		if err != nil {
			return nil, err
		}
		v.Type = tag
		v.HasPublicTransfer = p.UnpackBool()
		v.Version = p.UnpackUint64()
		p.UnpackBytes(-1, &v.Contents)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case packageObjectData:
		return unmarshalMovePackage(p)
	default:
		return nil, fmt.Errorf("%w: object data %d", ErrUnknownVariant, kind)
	}
}

func marshalMovePackage(p *codec.Packer, pkg MovePackage) {
	p.PackAddress(pkg.ID)
	p.PackUint64(pkg.Version)
	names := sortedModuleNames(pkg.Modules)
	p.PackLen(len(names))
	for _, name := range names {
		name.marshal(p)
		p.PackBytes(pkg.Modules[name])
	}
	p.PackLen(len(pkg.TypeOriginTable))
	for _, origin := range pkg.TypeOriginTable {
		origin.ModuleName.marshal(p)
		origin.StructName.marshal(p)
		p.PackAddress(origin.Package)
	}
	ids := sortedLinkageIDs(pkg.LinkageTable)
	p.PackLen(len(ids))
	for _, id := range ids {
		info := pkg.LinkageTable[id]
		p.PackAddress(id)
		p.PackAddress(info.UpgradedID)
		p.PackUint64(info.UpgradedVersion)
	}
}

func unmarshalMovePackage(p *codec.Packer) (ObjectData, error) {
	var pkg MovePackage
	p.UnpackAddress(&pkg.ID)
	pkg.Version = p.UnpackUint64()
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	pkg.Modules = make(map[Identifier][]byte, count)
	var prevKey []byte
	for i := 0; i < count; i++ {
		name, err := unmarshalIdentifier(p)
		if err != nil {
			return nil, err
		}
		key := packedModuleKey(name)
		if prevKey != nil && bytes.Compare(prevKey, key) >= 0 {
			return nil, fmt.Errorf("%w: module %q", ErrNonCanonicalMap, name)
		}
		prevKey = key
		var mod []byte
		p.UnpackBytes(-1, &mod)
		if err := p.Err(); err != nil {
			return nil, err
		}
		pkg.Modules[name] = mod
	}
	count = p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	pkg.TypeOriginTable = make([]TypeOrigin, 0, count)
	for i := 0; i < count; i++ {
		var origin TypeOrigin
		moduleName, err := unmarshalIdentifier(p)
		if err != nil {
			return nil, err
		}
		structName, err := unmarshalIdentifier(p)
		if err != nil {
			return nil, err
		}
		origin.ModuleName = moduleName
		origin.StructName = structName
		p.UnpackAddress(&origin.Package)
		pkg.TypeOriginTable = append(pkg.TypeOriginTable, origin)
	}
	count = p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	pkg.LinkageTable = make(map[ObjectID]UpgradeInfo, count)
	var prevID *ObjectID
	for i := 0; i < count; i++ {
		var (
			id   ObjectID
			info UpgradeInfo
		)
		p.UnpackAddress(&id)
		if err := p.Err(); err != nil {
			return nil, err
		}
		if prevID != nil && bytes.Compare(prevID[:], id[:]) >= 0 {
			return nil, fmt.Errorf("%w: linkage %s", ErrNonCanonicalMap, id)
		}
		prevID = &id
		p.UnpackAddress(&info.UpgradedID)
		info.UpgradedVersion = p.UnpackUint64()
		pkg.LinkageTable[id] = info
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// BCS writes maps as count-prefixed pairs sorted by the serialized key
// bytes, so module names order by their uleb length prefix first.
func sortedModuleNames(modules map[Identifier][]byte) []Identifier {
	names := make([]Identifier, 0, len(modules))
	keys := make(map[Identifier][]byte, len(modules))
	for name := range modules {
		names = append(names, name)
		keys[name] = packedModuleKey(name)
	}
	sort.Slice(names, func(i, j int) bool {
		return bytes.Compare(keys[names[i]], keys[names[j]]) < 0
	})
	return names
}

func packedModuleKey(name Identifier) []byte {
	p := codec.NewWriter(len(name)+consts.MaxUlebLen, -1)
	p.PackString(string(name))
	return p.Bytes()
}

func sortedLinkageIDs(linkage map[ObjectID]UpgradeInfo) []ObjectID {
	ids := make([]ObjectID, 0, len(linkage))
	for id := range linkage {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func marshalGenesisObjects(p *codec.Packer, objects []GenesisObject) {
	p.PackLen(len(objects))
	for _, o := range objects {
		marshalGenesisObject(p, o)
	}
}

func unmarshalGenesisObjects(p *codec.Packer) ([]GenesisObject, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	objects := make([]GenesisObject, 0, count)
	for i := 0; i < count; i++ {
		o, err := unmarshalGenesisObject(p)
		if err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}
	return objects, nil
}

func (o GenesisObject) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string     `json:"type"`
		Data  ObjectData `json:"data"`
		Owner Owner      `json:"owner"`
	}{Type: "raw_object", Data: o.Data, Owner: o.Owner})
}

func (o *GenesisObject) UnmarshalJSON(b []byte) error {
	var v struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Owner json.RawMessage `json:"owner"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: genesis object: %v", ErrMalformedScalar, err)
	}
	if v.Type != "raw_object" {
		return fmt.Errorf("%w: genesis object %q", ErrUnknownVariant, v.Type)
	}
	data, err := unmarshalObjectDataJSON(v.Data)
	if err != nil {
		return err
	}
	owner, err := unmarshalOwnerJSON(v.Owner)
	if err != nil {
		return err
	}
	o.Data = data
	o.Owner = owner
	return nil
}

func unmarshalGenesisObjectsJSON(raws []json.RawMessage) ([]GenesisObject, error) {
	objects := make([]GenesisObject, 0, len(raws))
	for _, raw := range raws {
		var o GenesisObject
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}
	return objects, nil
}

type moveStructJSON struct {
	Type              StructTag   `json:"type"`
	HasPublicTransfer bool        `json:"has_public_transfer"`
	Version           uint64      `json:"version,string"`
	Contents          codec.Bytes `json:"contents"`
}

func (s MoveStruct) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Struct moveStructJSON `json:"struct"`
	}{Struct: moveStructJSON{
		Type:              s.Type,
		HasPublicTransfer: s.HasPublicTransfer,
		Version:           s.Version,
		Contents:          codec.Bytes(s.Contents),
	}})
}

type movePackageJSON struct {
	ID              ObjectID                 `json:"id"`
	Version         uint64                   `json:"version,string"`
	Modules         map[Identifier][]byte    `json:"modules"`
	TypeOriginTable []TypeOrigin             `json:"type_origin_table"`
	LinkageTable    map[ObjectID]UpgradeInfo `json:"linkage_table"`
}

func (s MovePackage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Package movePackageJSON `json:"package"`
	}{Package: movePackageJSON{
		ID:              s.ID,
		Version:         s.Version,
		Modules:         nonNilMap(s.Modules),
		TypeOriginTable: nonNil(s.TypeOriginTable),
		LinkageTable:    nonNilMap(s.LinkageTable),
	}})
}

func unmarshalObjectDataJSON(raw json.RawMessage) (ObjectData, error) {
	var probe struct {
		Struct  *json.RawMessage `json:"struct"`
		Package *json.RawMessage `json:"package"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: object data: %v", ErrMalformedScalar, err)
	}
	switch {
	case probe.Struct != nil:
		var v moveStructJSON
		if err := json.Unmarshal(*probe.Struct, &v); err != nil {
			return nil, fmt.Errorf("%w: struct object: %v", ErrMalformedScalar, err)
		}
		return MoveStruct{
			Type:              v.Type,
			HasPublicTransfer: v.HasPublicTransfer,
			Version:           v.Version,
			Contents:          v.Contents,
		}, nil
	case probe.Package != nil:
		var v movePackageJSON
		if err := json.Unmarshal(*probe.Package, &v); err != nil {
			return nil, fmt.Errorf("%w: package object: %v", ErrMalformedScalar, err)
		}
		return MovePackage{
			ID:              v.ID,
			Version:         v.Version,
			Modules:         nonNilMap(v.Modules),
			TypeOriginTable: nonNil(v.TypeOriginTable),
			LinkageTable:    nonNilMap(v.LinkageTable),
		}, nil
	default:
		return nil, fmt.Errorf("%w: object data", ErrUnknownVariant)
	}
}

func marshalOwner(p *codec.Packer, o Owner) {
	switch v := o.(type) {
	case AddressOwner:
		p.PackUleb(addressOwnerKind)
		p.PackAddress(v.Address)
	case ObjectOwner:
		p.PackUleb(objectOwnerKind)
		p.PackAddress(v.ObjectID)
	case SharedOwner:
		p.PackUleb(sharedOwnerKind)
		p.PackUint64(v.InitialSharedVersion)
	case ImmutableOwner:
		p.PackUleb(immutableOwnerKind)
	default:
		p.SetErr(fmt.Errorf("%w: owner %T", ErrUnknownVariant, o))
	}
}

func unmarshalOwner(p *codec.Packer) (Owner, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case addressOwnerKind:
		var v AddressOwner
		p.UnpackAddress(&v.Address)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case objectOwnerKind:
		var v ObjectOwner
		p.UnpackAddress(&v.ObjectID)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case sharedOwnerKind:
		var v SharedOwner
		v.InitialSharedVersion = p.UnpackUint64()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case immutableOwnerKind:
		return ImmutableOwner{}, nil
	default:
		return nil, fmt.Errorf("%w: owner %d", ErrUnknownVariant, kind)
	}
}

func (o AddressOwner) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string        `json:"type"`
		Address codec.Address `json:"address"`
	}{Type: "address", Address: o.Address})
}

func (o ObjectOwner) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		ObjectID ObjectID `json:"object_id"`
	}{Type: "object", ObjectID: o.ObjectID})
}

func (o SharedOwner) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type                 string `json:"type"`
		InitialSharedVersion uint64 `json:"initial_shared_version,string"`
	}{Type: "shared", InitialSharedVersion: o.InitialSharedVersion})
}

func (ImmutableOwner) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: "immutable"})
}

func unmarshalOwnerJSON(raw json.RawMessage) (Owner, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: owner: %v", ErrMalformedScalar, err)
	}
	switch probe.Type {
	case "address":
		var v struct {
			Address codec.Address `json:"address"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: address owner: %v", ErrMalformedScalar, err)
		}
		return AddressOwner{Address: v.Address}, nil
	case "object":
		var v struct {
			ObjectID ObjectID `json:"object_id"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: object owner: %v", ErrMalformedScalar, err)
		}
		return ObjectOwner{ObjectID: v.ObjectID}, nil
	case "shared":
		var v struct {
			InitialSharedVersion uint64 `json:"initial_shared_version,string"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: shared owner: %v", ErrMalformedScalar, err)
		}
		return SharedOwner{InitialSharedVersion: v.InitialSharedVersion}, nil
	case "immutable":
		return ImmutableOwner{}, nil
	default:
		return nil, fmt.Errorf("%w: owner %q", ErrUnknownVariant, probe.Type)
	}
}
