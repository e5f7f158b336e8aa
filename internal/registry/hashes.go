package registry

var hashes = map[HashID]HashSpec{
	HashBLAKE2b:   {ID: HashBLAKE2b, OutputSizeBits: 512},
	HashSHA3:      {ID: HashSHA3, OutputSizeBits: 512},
	HashSHA2:      {ID: HashSHA2, OutputSizeBits: 512},
	HashRIPEMD160: {ID: HashRIPEMD160, OutputSizeBits: 160},
	HashWhirlpool: {
		ID: HashWhirlpool, Unavailable: true,
		UnavailableReason: "no maintained Go implementation in the dependency pack",
	},
	HashTiger: {
		ID: HashTiger, Unavailable: true,
		UnavailableReason: "no maintained Go implementation in the dependency pack",
	},
}

func Hash(id HashID) (HashSpec, bool) {
	h, ok := hashes[id]
	return h, ok
}

var macs = map[MACID]MACSpec{
	MACHMAC: {
		ID:                    MACHMAC,
		AllowableKeySizesBits: []int{256, 512},
		DefaultKeySizeBits:    512,
		TagSizeBits:           512,
	},
	MACCMAC: {
		ID:                    MACCMAC,
		AllowableKeySizesBits: []int{128, 192, 256},
		DefaultKeySizeBits:    256,
		TagSizeBits:           128,
	},
	MACPoly1305: {
		ID:                      MACPoly1305,
		AllowableKeySizesBits:   []int{256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{96},
		TagSizeBits:             128,
	},
	MACBLAKE2bKeyed: {
		ID:                    MACBLAKE2bKeyed,
		AllowableKeySizesBits: []int{8, 16, 32, 64, 128, 256, 512}, // BLAKE2b keys: 1..64 bytes
		DefaultKeySizeBits:    256,
		TagSizeBits:           512,
	},
	MACKeccakKeyed: {
		ID:                    MACKeccakKeyed,
		AllowableKeySizesBits: []int{256, 512},
		DefaultKeySizeBits:    512,
		TagSizeBits:           512,
	},
}

func MAC(id MACID) (MACSpec, bool) {
	m, ok := macs[id]
	return m, ok
}

var kdfs = map[KDFID]KDFSpec{
	KDFScrypt: {ID: KDFScrypt, DefaultOutputBits: 256},
	KDFPBKDF2: {ID: KDFPBKDF2, DefaultOutputBits: 256},
}

func KDF(id KDFID) (KDFSpec, bool) {
	k, ok := kdfs[id]
	return k, ok
}
