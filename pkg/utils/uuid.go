package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const idLength = 12

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
