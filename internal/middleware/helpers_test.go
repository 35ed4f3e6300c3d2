package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

func jsonDecode(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

func zerologNop() zerolog.Logger {
	return zerolog.Nop()
}
