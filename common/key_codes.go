package common

// Key identifies a keyboard key as reported by the window layer. Values
// follow GLFW key codes, which reuse ASCII for printable keys, so platform
// codes convert without a lookup table.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key uint32

// KeySpace is the only printable key that is not a letter or digit.
const KeySpace Key = ' '

// Letter keys carry their uppercase ASCII values.
const (
	KeyA Key = 'A' + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// Digit keys along the top row.
const (
	Key0 Key = '0' + iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Non-printable keys live above the ASCII range in GLFW's function key block.
const (
	KeyEsc        Key = 256
	KeyEnter      Key = 257
	KeyTab        Key = 258
	KeyBackspace  Key = 259
	KeyLeftShift  Key = 340
	KeyRightShift Key = 344
)
