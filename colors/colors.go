package colors

// package colors contains functions to quickly and easily generate armature.Color instances by name (i.e. "White()", "Blue()", "Green()", etc).

import "github.com/solarlune/armature"

// White generates an armature.Color instance of the provided name.
func White() armature.Color {
	return armature.NewColor(1, 1, 1, 1)
}

// Black generates an armature.Color instance of the provided name.
func Black() armature.Color {
	return armature.NewColor(0, 0, 0, 1)
}

// Gray generates an armature.Color instance of the provided name.
func Gray() armature.Color {
	return armature.NewColor(0.5, 0.5, 0.5, 1)
}

// Red generates an armature.Color instance of the provided name.
func Red() armature.Color {
	return armature.NewColor(1, 0, 0, 1)
}

// Green generates an armature.Color instance of the provided name.
func Green() armature.Color {
	return armature.NewColor(0, 1, 0, 1)
}

// Blue generates an armature.Color instance of the provided name.
func Blue() armature.Color {
	return armature.NewColor(0, 0, 1, 1)
}

// Yellow generates an armature.Color instance of the provided name.
func Yellow() armature.Color {
	return armature.NewColor(1, 1, 0, 1)
}

// SkyBlue generates an armature.Color instance of the provided name.
func SkyBlue() armature.Color {
	return armature.NewColor(0, 0.5, 1, 1)
}
