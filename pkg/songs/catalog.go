package songs

// SongTwinkleStar - 小星星 (Twinkle Twinkle Little Star)
var SongTwinkleStar = Song{
	ID:    "twinkle_star",
	Name:  "小星星",
	Tempo: Tempo{BPM: 100, Signature: Time4_4},
	Voices: func() []BeatVoice {
		melody := BeatVoice{Notes: []BeatNote{
			// Bar 1-2
			N(C4, Quarter), N(C4, Quarter), N(G4, Quarter), N(G4, Quarter),
			N(A4, Quarter), N(A4, Quarter), N(G4, Half),
			// Bar 3-4
			N(F4, Quarter), N(F4, Quarter), N(E4, Quarter), N(E4, Quarter),
			N(D4, Quarter), N(D4, Quarter), N(C4, Half),
			// Bar 5-6
			N(G4, Quarter), N(G4, Quarter), N(F4, Quarter), N(F4, Quarter),
			N(E4, Quarter), N(E4, Quarter), N(D4, Half),
			// Bar 7-8
			N(G4, Quarter), N(G4, Quarter), N(F4, Quarter), N(F4, Quarter),
			N(E4, Quarter), N(E4, Quarter), N(D4, Half),
			// Bar 9-10
			N(C4, Quarter), N(C4, Quarter), N(G4, Quarter), N(G4, Quarter),
			N(A4, Quarter), N(A4, Quarter), N(G4, Half),
			// Bar 11-12
			N(F4, Quarter), N(F4, Quarter), N(E4, Quarter), N(E4, Quarter),
			N(D4, Quarter), N(D4, Quarter), N(C4, Half),
		}}

		accomp := BeatVoice{Velocity: 70, Notes: []BeatNote{
			N(C3, Quarter), N(E3, Quarter), N(G3, Quarter), N(E3, Quarter),
			N(F3, Quarter), N(A3, Quarter), N(C3, Half),
			N(F3, Quarter), N(A3, Quarter), N(C3, Quarter), N(E3, Quarter),
			N(G3, Quarter), N(B3, Quarter), N(C3, Half),
			N(C3, Quarter), N(E3, Quarter), N(F3, Quarter), N(A3, Quarter),
			N(C3, Quarter), N(E3, Quarter), N(G3, Half),
			N(C3, Quarter), N(E3, Quarter), N(F3, Quarter), N(A3, Quarter),
			N(C3, Quarter), N(E3, Quarter), N(G3, Half),
			N(C3, Quarter), N(E3, Quarter), N(G3, Quarter), N(E3, Quarter),
			N(F3, Quarter), N(A3, Quarter), N(C3, Half),
			N(F3, Quarter), N(A3, Quarter), N(C3, Quarter), N(E3, Quarter),
			N(G3, Quarter), N(B3, Quarter), N(C3, Half),
		}}

		return []BeatVoice{melody, accomp}
	},
}

// SongHappyBirthday - 生日快乐 (Happy Birthday)
var SongHappyBirthday = Song{
	ID:    "happy_birthday",
	Name:  "生日快乐",
	Tempo: Tempo{BPM: 120, Signature: Time3_4},
	Voices: func() []BeatVoice {
		melody := BeatVoice{Notes: []BeatNote{
			N(C4, Eighth), N(C4, Eighth), N(D4, Quarter), N(C4, Quarter), N(F4, Quarter), N(E4, Half),
			N(C4, Eighth), N(C4, Eighth), N(D4, Quarter), N(C4, Quarter), N(G4, Quarter), N(F4, Half),
			N(C4, Eighth), N(C4, Eighth), N(C5, Quarter), N(A4, Quarter), N(F4, Quarter), N(E4, Quarter), N(D4, Half),
			N(Bb4, Eighth), N(Bb4, Eighth), N(A4, Quarter), N(F4, Quarter), N(G4, Quarter), N(F4, DotHalf),
		}}

		// Waltz-style accompaniment
		accomp := BeatVoice{Velocity: 64, Notes: []BeatNote{
			N(Rest, Quarter), N(F3, Quarter), N(A3, Quarter), N(C4, Quarter), N(C3, Quarter), N(G3, Quarter), N(C4, Quarter),
			N(Rest, Quarter), N(F3, Quarter), N(A3, Quarter), N(C4, Quarter), N(C3, Quarter), N(G3, Quarter), N(C4, Quarter),
			N(Rest, Quarter), N(F3, Quarter), N(A3, Quarter), N(C4, Quarter), N(E3, Quarter), N(G3, Quarter), N(C4, Quarter), N(D3, Quarter), N(F3, Quarter), N(A3, Quarter),
			N(Rest, Quarter), N(Bb3, Quarter), N(D4, Quarter), N(F4, Quarter), N(F3, Quarter), N(A3, Quarter), N(C4, Quarter), N(F3, DotHalf),
		}}

		return []BeatVoice{melody, accomp}
	},
}

// SongTwoTigers - 两只老虎 (Two Tigers / Frère Jacques)
var SongTwoTigers = Song{
	ID:    "two_tigers",
	Name:  "两只老虎",
	Tempo: Tempo{BPM: 120, Signature: Time4_4},
	Voices: func() []BeatVoice {
		melody := BeatVoice{Notes: []BeatNote{
			N(C4, Quarter), N(D4, Quarter), N(E4, Quarter), N(C4, Quarter),
			N(C4, Quarter), N(D4, Quarter), N(E4, Quarter), N(C4, Quarter),
			N(E4, Quarter), N(F4, Quarter), N(G4, Half),
			N(E4, Quarter), N(F4, Quarter), N(G4, Half),
			N(G4, Eighth), N(A4, Eighth), N(G4, Eighth), N(F4, Eighth), N(E4, Quarter), N(C4, Quarter),
			N(G4, Eighth), N(A4, Eighth), N(G4, Eighth), N(F4, Eighth), N(E4, Quarter), N(C4, Quarter),
			N(C4, Quarter), N(G3, Quarter), N(C4, Half),
			N(C4, Quarter), N(G3, Quarter), N(C4, Half),
		}}

		// Simple bass line
		accomp := BeatVoice{Velocity: 70, Notes: []BeatNote{
			N(C3, Half), N(E3, Half),
			N(A2, Half), N(E3, Half),
			N(C3, Half), N(G2, Half),
			N(C3, Half), N(G2, Half),
			N(C3, Half), N(G2, Half),
			N(C3, Half), N(G2, Half),
			N(C3, Quarter), N(G2, Quarter), N(C3, Half),
			N(C3, Quarter), N(G2, Quarter), N(C3, Half),
		}}

		return []BeatVoice{melody, accomp}
	},
}

// SongScaleC - C大调音阶 (two octaves up and down)
var SongScaleC = Song{
	ID:    "scale_c_major",
	Name:  "C大调音阶",
	Tempo: Tempo{BPM: 120, Signature: Time4_4},
	Voices: func() []BeatVoice {
		melody := BeatVoice{Notes: []BeatNote{
			N(C4, Eighth), N(D4, Eighth), N(E4, Eighth), N(F4, Eighth),
			N(G4, Eighth), N(A4, Eighth), N(B4, Eighth), N(C5, Eighth),
			N(D5, Eighth), N(E5, Eighth), N(F5, Eighth), N(G5, Eighth),
			N(A5, Eighth), N(B5, Eighth), N(C6, Quarter),
			N(C6, Eighth), N(B5, Eighth), N(A5, Eighth), N(G5, Eighth),
			N(F5, Eighth), N(E5, Eighth), N(D5, Eighth), N(C5, Eighth),
			N(B4, Eighth), N(A4, Eighth), N(G4, Eighth), N(F4, Eighth),
			N(E4, Eighth), N(D4, Eighth), N(C4, Quarter),
		}}

		// Parallel bass
		accomp := BeatVoice{Velocity: 70, Notes: []BeatNote{
			N(C3, Eighth), N(D3, Eighth), N(E3, Eighth), N(F3, Eighth),
			N(G3, Eighth), N(A3, Eighth), N(B3, Eighth), N(C4, Eighth),
			N(D4, Eighth), N(E4, Eighth), N(F4, Eighth), N(G4, Eighth),
			N(A4, Eighth), N(B4, Eighth), N(C5, Quarter),
			N(C5, Eighth), N(B4, Eighth), N(A4, Eighth), N(G4, Eighth),
			N(F4, Eighth), N(E4, Eighth), N(D4, Eighth), N(C4, Eighth),
			N(B3, Eighth), N(A3, Eighth), N(G3, Eighth), N(F3, Eighth),
			N(E3, Eighth), N(D3, Eighth), N(C3, Quarter),
		}}

		return []BeatVoice{melody, accomp}
	},
}

// SongScaleGMinor - G小调音阶 (harmonic minor)
var SongScaleGMinor = Song{
	ID:    "scale_g_minor",
	Name:  "G小调音阶",
	Tempo: Tempo{BPM: 110, Signature: Time4_4},
	Voices: func() []BeatVoice {
		melody := BeatVoice{Notes: []BeatNote{
			N(G4, Eighth), N(A4, Eighth), N(Bb4, Eighth), N(C5, Eighth),
			N(D5, Eighth), N(Eb5, Eighth), N(Fs5, Eighth), N(G5, Eighth),
			N(G5, Quarter), N(Rest, Quarter),
			N(G5, Eighth), N(Fs5, Eighth), N(Eb5, Eighth), N(D5, Eighth),
			N(C5, Eighth), N(Bb4, Eighth), N(A4, Eighth), N(G4, Eighth),
			N(G4, Half),
		}}

		accomp := BeatVoice{Velocity: 70, Notes: []BeatNote{
			N(G3, Eighth), N(A3, Eighth), N(Bb3, Eighth), N(C4, Eighth),
			N(D4, Eighth), N(Eb4, Eighth), N(Fs4, Eighth), N(G4, Eighth),
			N(G4, Quarter), N(Rest, Quarter),
			N(G4, Eighth), N(Fs4, Eighth), N(Eb4, Eighth), N(D4, Eighth),
			N(C4, Eighth), N(Bb3, Eighth), N(A3, Eighth), N(G3, Eighth),
			N(G3, Half),
		}}

		return []BeatVoice{melody, accomp}
	},
}
