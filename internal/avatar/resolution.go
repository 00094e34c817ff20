package avatar

// CanonicalResolution is the single high-resolution size fetched from the
// origin to satisfy every non-native requested resolution. All non-native
// sizes derive from this one base image, so the origin sees at most one
// canonical fetch per user no matter how many odd sizes are requested.
const CanonicalResolution = 720

// nativeResolutions are the sizes the origin can produce directly.
var nativeResolutions = map[int]struct{}{
	48: {}, 50: {}, 60: {}, 75: {}, 100: {}, 110: {},
	150: {}, 180: {}, 352: {}, 420: {}, 720: {},
}

// IsNative reports whether the origin can serve the resolution directly.
func IsNative(res int) bool {
	_, ok := nativeResolutions[res]
	return ok
}

// ResolveSource decides which source resolution backs a requested resolution.
// Native sizes are fetched directly; everything else is satisfied by resizing
// the canonical base.
func ResolveSource(res int) (sourceRes int, direct bool) {
	if IsNative(res) {
		return res, true
	}
	return CanonicalResolution, false
}
