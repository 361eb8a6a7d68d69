// Package flash carries one-shot notifications across the redirect that
// follows every form post. It is the server-rendered stand-in for the
// original dashboard's toast stack.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "ragadmin_flash"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

type Message struct {
	Level Level  `json:"level"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func Success(text string) Message {
	return Message{Level: LevelSuccess, Title: "Success", Text: text}
}

func Error(text string) Message {
	return Message{Level: LevelError, Title: "Error", Text: text}
}

func Warning(text string) Message {
	return Message{Level: LevelWarning, Title: "Warning", Text: text}
}

// Partial marks an outcome where the primary step succeeded but a
// dependent step failed; it renders at error level so it is not mistaken
// for full success.
func Partial(text string) Message {
	return Message{Level: LevelError, Title: "Partial Success", Text: text}
}

// Set queues messages for the next page render.
func Set(w http.ResponseWriter, messages ...Message) {
	if len(messages) == 0 {
		return
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
	})
}

// Take returns the queued messages and clears the cookie.
func Take(w http.ResponseWriter, r *http.Request) []Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var messages []Message
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil
	}
	return messages
}
