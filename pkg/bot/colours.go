package bot

// Embed colours used across the bot's responses.
const (
	ColourBlue        = 0x0279FD
	ColourBrightGreen = 0x01D277
	ColourSoftGreen   = 0x68C290
	ColourSoftRed     = 0xCD6D6D
	ColourSoftOrange  = 0xF9CB54
	ColourGold        = 0xE6C200
	ColourPythonBlue  = 0x4B8BBE
)
