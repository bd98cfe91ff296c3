// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the avrctl authors

package avr

// The receiver reports enum-valued fields as literal wire tokens. Each
// vocabulary below is a closed, bidirectional mapping between a symbolic
// value and exactly one token. Decoding an unrecognized token is a hard
// error (UnknownTokenError), never a fallback value.

// Power represents the power state of the receiver.
type Power int

// Power states
const (
	PowerOff Power = iota
	PowerOn
	PowerStandby
)

// InputSource represents an input selection.
type InputSource int

// Input sources
const (
	SourcePhono InputSource = iota
	SourceCD
	SourceDVD
	SourceBluray
	SourceTV
	SourceCblSat
	SourceMediaPlayer
	SourceGame
	SourceTuner
	SourceHDRadio
	SourceSiriusXM
	SourcePandora
	SourceInternetRadio
	SourceServer
	SourceFavorites
	SourceAux1
	SourceAux2
	SourceAux3
	SourceAux4
	SourceAux5
	SourceAux6
	SourceAux7
	SourceOnlineMusic
	SourceBluetooth
)

// SurroundMode represents a surround sound processing mode.
type SurroundMode int

// Surround modes. Values through ModeRight are settable; the remainder
// are decode mode reports only (the receiver switches to them on its own
// based on the input signal) and are rejected by SelectSoundMode.
const (
	ModeMovie SurroundMode = iota
	ModeMusic
	ModeGame
	ModeDirect
	ModePureDirect
	ModeStereo
	ModeAuto
	ModeDolbyDigital
	ModeDtsSurround
	ModeAuro3D
	ModeAuro2DSurround
	ModeMultiChannelStereo
	ModeVirtual

	// Rotate between options
	ModeLeft
	ModeRight

	// Report only
	ModeDolbySurround
	ModeDolbyAtmos
	ModeDolbyDigitalDS
	ModeDolbyDigitalNeuralX
	ModeDolbyDigitalPlus
	ModeDolbyDigitalPlusDS
	ModeDolbyDigitalPlusNeuralX
	ModeDolbyHD
	ModeDolbyHDDS
	ModeDolbyHDNeuralX
	ModeNeuralX
	ModeDtsEsDscrt61
	ModeDtsEsMtrx61
	ModeDtsDS
	ModeDtsNeuralX
	ModeDtsEsMtrxNeuralX
	ModeDtsEsDscrtNeuralX
	ModeDts9624
	ModeDts96EsMtrx
	ModeDtsHD
	ModeDtsHDMstr
	ModeDtsHDDS
	ModeDtsHDNeuralX
	ModeDtsX
	ModeDtsXMstr
	ModeDtsExpress
	ModeDtsEs8ChDscrt
	ModeMultiChIn
	ModeMultiChInDS
	ModeMultiChInNeuralX
	ModeMultiChIn71
)

// entry binds one enum value to its CLI name and wire token. The tables
// are ordered; list accessors preserve this order.
type entry[T comparable] struct {
	value T
	name  string
	token string
}

var powerTable = []entry[Power]{
	{PowerOff, "Off", "OFF"},
	{PowerOn, "On", "ON"},
	{PowerStandby, "Standby", "STANDBY"},
}

var sourceTable = []entry[InputSource]{
	{SourcePhono, "Phono", "PHONO"},
	{SourceCD, "CD", "CD"},
	{SourceDVD, "DVD", "DVD"},
	{SourceBluray, "Bluray", "BD"},
	{SourceTV, "TV", "TV"},
	{SourceCblSat, "CblSat", "SAT/CBL"},
	{SourceMediaPlayer, "MediaPlayer", "MPLAY"},
	{SourceGame, "Game", "GAME"},
	{SourceTuner, "Tuner", "TUNER"},
	{SourceHDRadio, "HDRadio", "HDRADIO"},
	{SourceSiriusXM, "SiriusXM", "SIRIUSXM"},
	{SourcePandora, "Pandora", "PANDORA"},
	{SourceInternetRadio, "InternetRadio", "IRADIO"},
	{SourceServer, "Server", "SERVER"},
	{SourceFavorites, "Favorites", "FAVORITES"},
	{SourceAux1, "Aux1", "AUX1"},
	{SourceAux2, "Aux2", "AUX2"},
	{SourceAux3, "Aux3", "AUX3"},
	{SourceAux4, "Aux4", "AUX4"},
	{SourceAux5, "Aux5", "AUX5"},
	{SourceAux6, "Aux6", "AUX6"},
	{SourceAux7, "Aux7", "AUX7"},
	{SourceOnlineMusic, "OnlineMusic", "NET"},
	{SourceBluetooth, "Bluetooth", "BT"},
}

var modeTable = []entry[SurroundMode]{
	{ModeMovie, "Movie", "MOVIE"},
	{ModeMusic, "Music", "MUSIC"},
	{ModeGame, "Game", "GAME"},
	{ModeDirect, "Direct", "DIRECT"},
	{ModePureDirect, "PureDirect", "PURE DIRECT"},
	{ModeStereo, "Stereo", "STEREO"},
	{ModeAuto, "Auto", "AUTO"},
	{ModeDolbyDigital, "DolbyDigital", "DOLBY DIGITAL"},
	{ModeDtsSurround, "DtsSurround", "DTS SURROUND"},
	{ModeAuro3D, "Auro3D", "AURO3D"},
	{ModeAuro2DSurround, "Auro2DSurround", "AURO2DSURR"},
	{ModeMultiChannelStereo, "MultiChannelStereo", "MCH STEREO"},
	{ModeVirtual, "Virtual", "VIRTUAL"},
	{ModeLeft, "Left", "LEFT"},
	{ModeRight, "Right", "RIGHT"},
	{ModeDolbySurround, "DolbySurround", "DOLBY SURROUND"},
	{ModeDolbyAtmos, "DolbyAtmos", "DOLBY ATMOS"},
	{ModeDolbyDigitalDS, "DolbyDigitalDS", "DOLBY D+DS"},
	{ModeDolbyDigitalNeuralX, "DolbyDigitalNeuralX", "DOLBY D+NEURAL:X"},
	{ModeDolbyDigitalPlus, "DolbyDigitalPlus", "DOLBY D+"},
	{ModeDolbyDigitalPlusDS, "DolbyDigitalPlusDS", "DOLBY D+ +DS"},
	{ModeDolbyDigitalPlusNeuralX, "DolbyDigitalPlusNeuralX", "DOLBY D+ +NEURAL:X"},
	{ModeDolbyHD, "DolbyHD", "DOLBY HD"},
	{ModeDolbyHDDS, "DolbyHDDS", "DOLBY HD+DS"},
	{ModeDolbyHDNeuralX, "DolbyHDNeuralX", "DOLBY HD+NEURAL:X"},
	{ModeNeuralX, "NeuralX", "NEURAL:X"},
	{ModeDtsEsDscrt61, "DtsEsDscrt61", "DTS ES DSCRT6.1"},
	{ModeDtsEsMtrx61, "DtsEsMtrx61", "DTS ES MTRX6.1"},
	{ModeDtsDS, "DtsDS", "DTS+DS"},
	{ModeDtsNeuralX, "DtsNeuralX", "DTS+NEURAL:X"},
	{ModeDtsEsMtrxNeuralX, "DtsEsMtrxNeuralX", "DTS ES MTRX+NEURAL:X"},
	{ModeDtsEsDscrtNeuralX, "DtsEsDscrtNeuralX", "DTS ES DSCRT+NEURAL:X"},
	{ModeDts9624, "Dts9624", "DTS96/24"},
	{ModeDts96EsMtrx, "Dts96EsMtrx", "DTS96 ES MTRX"},
	{ModeDtsHD, "DtsHD", "DTS HD"},
	{ModeDtsHDMstr, "DtsHDMstr", "DTS HD MSTR"},
	{ModeDtsHDDS, "DtsHDDS", "MSDTS HD+DS"},
	{ModeDtsHDNeuralX, "DtsHDNeuralX", "DTS HD+NEURAL:X"},
	{ModeDtsX, "DtsX", "DTS:X"},
	{ModeDtsXMstr, "DtsXMstr", "DTS:X MSTR"},
	{ModeDtsExpress, "DtsExpress", "DTS EXPRESS"},
	{ModeDtsEs8ChDscrt, "DtsEs8ChDscrt", "DTS ES 8CH DSCRT"},
	{ModeMultiChIn, "MultiChIn", "MULTI CH IN"},
	{ModeMultiChInDS, "MultiChInDS", "M CH IN+DS"},
	{ModeMultiChInNeuralX, "MultiChInNeuralX", "M CH IN+NEURAL:X"},
	{ModeMultiChIn71, "MultiChIn71", "MULTI CH IN 7.1"},
}

// vocabulary provides the derived lookups for one enum table.
type vocabulary[T comparable] struct {
	table   []entry[T]
	byValue map[T]entry[T]
	byName  map[string]T
	byToken map[string]T
}

func newVocabulary[T comparable](table []entry[T]) *vocabulary[T] {
	v := &vocabulary[T]{
		table:   table,
		byValue: make(map[T]entry[T], len(table)),
		byName:  make(map[string]T, len(table)),
		byToken: make(map[string]T, len(table)),
	}
	for _, e := range table {
		v.byValue[e.value] = e
		v.byName[e.name] = e.value
		v.byToken[e.token] = e.value
	}
	return v
}

func (v *vocabulary[T]) name(value T) string {
	return v.byValue[value].name
}

func (v *vocabulary[T]) token(value T) string {
	return v.byValue[value].token
}

func (v *vocabulary[T]) values() []T {
	out := make([]T, len(v.table))
	for i, e := range v.table {
		out[i] = e.value
	}
	return out
}

var (
	powerVocab  = newVocabulary(powerTable)
	sourceVocab = newVocabulary(sourceTable)
	modeVocab   = newVocabulary(modeTable)
)

// String returns the symbolic name, e.g. "Standby".
func (p Power) String() string { return powerVocab.name(p) }

// Token returns the wire token, e.g. "STANDBY". Empty for invalid values.
func (p Power) Token() string { return powerVocab.token(p) }

// String returns the symbolic name, e.g. "CblSat".
func (s InputSource) String() string { return sourceVocab.name(s) }

// Token returns the wire token, e.g. "SAT/CBL". Empty for invalid values.
func (s InputSource) Token() string { return sourceVocab.token(s) }

// String returns the symbolic name, e.g. "MultiChannelStereo".
func (m SurroundMode) String() string { return modeVocab.name(m) }

// Token returns the wire token, e.g. "MCH STEREO". Empty for invalid values.
func (m SurroundMode) Token() string { return modeVocab.token(m) }

// Settable reports whether the mode can be requested with SelectSoundMode,
// as opposed to the decode modes the receiver only ever reports.
func (m SurroundMode) Settable() bool { return m <= ModeRight }

// PowerFromToken decodes a wire token into a Power value.
func PowerFromToken(token string) (Power, error) {
	p, ok := powerVocab.byToken[token]
	if !ok {
		return 0, &UnknownTokenError{Field: "PW", Token: token}
	}
	return p, nil
}

// InputSourceFromToken decodes a wire token into an InputSource.
func InputSourceFromToken(token string) (InputSource, error) {
	s, ok := sourceVocab.byToken[token]
	if !ok {
		return 0, &UnknownTokenError{Field: "SI", Token: token}
	}
	return s, nil
}

// InputSourceFromName resolves a symbolic name, e.g. "Bluray".
func InputSourceFromName(name string) (InputSource, bool) {
	s, ok := sourceVocab.byName[name]
	return s, ok
}

// SurroundModeFromToken decodes a wire token into a SurroundMode.
func SurroundModeFromToken(token string) (SurroundMode, error) {
	m, ok := modeVocab.byToken[token]
	if !ok {
		return 0, &UnknownTokenError{Field: "MS", Token: token}
	}
	return m, nil
}

// SurroundModeFromName resolves a symbolic name, e.g. "PureDirect".
func SurroundModeFromName(name string) (SurroundMode, bool) {
	m, ok := modeVocab.byName[name]
	return m, ok
}

// InputSources returns every input source, in protocol table order. The
// list is static; it does not depend on device state.
func InputSources() []InputSource { return sourceVocab.values() }

// SurroundModes returns every surround mode, in protocol table order.
func SurroundModes() []SurroundMode { return modeVocab.values() }
