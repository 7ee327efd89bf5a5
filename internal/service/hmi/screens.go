package hmi

// Screen texts.
const (
	promptEnter      = "Plz enter pass: "
	promptReenter    = "Plz re-enter the "
	promptSamePass   = "same pass: "
	menuOpenDoor     = "+ : Open Door"
	menuChangePass   = "- : Change Pass"
	doorIs           = "Door is "
	doorUnlocking    = "unlocking"
	doorLocking      = "locking   "
	incorrectPass    = "INCORRECT PASS"
	samePassEntryCol = 11
)

// Menu keys.
const (
	KeyOpenDoor   byte = '+'
	KeyChangePass byte = '-'
)
