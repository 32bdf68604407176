package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/s0up4200/moviedeck/slideshow"
	"github.com/s0up4200/moviedeck/tmdb"
)

// HeroSlide is a slide with the URLs needed to render it
type HeroSlide struct {
	slideshow.Slide
	BackdropURL string `json:"backdrop_url"`
	EmbedURL    string `json:"embed_url,omitempty"`
}

// HeroResponse is the slideshow state. Fallback means the static banner is
// shown instead of slides. Commands holds the player commands queued since
// the previous hero response, in order; the browser posts each one to its
// player's iframe.
type HeroResponse struct {
	Fallback       bool            `json:"fallback"`
	Current        int             `json:"current"`
	ManualOverride bool            `json:"manual_override"`
	Slides         []HeroSlide     `json:"slides"`
	Commands       []PlayerCommand `json:"commands"`
}

func (s *Server) heroResponse(state slideshow.State) HeroResponse {
	slides := make([]HeroSlide, len(state.Slides))
	for i, slide := range state.Slides {
		slides[i] = HeroSlide{
			Slide:       slide,
			BackdropURL: tmdb.BackdropURL(slide.BackdropPath, "original"),
		}
		if slide.HasTrailer() {
			slides[i].EmbedURL = slideshow.EmbedURL(slide.Trailer.Key, s.origin)
		}
	}

	commands := []PlayerCommand{}
	if s.players != nil {
		if pending := s.players.Drain(); pending != nil {
			commands = pending
		}
	}

	return HeroResponse{
		Fallback:       state.Fallback(),
		Current:        state.Current,
		ManualOverride: state.ManualOverride,
		Slides:         slides,
		Commands:       commands,
	}
}

func (s *Server) handleHero(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.heroResponse(s.hero.State()))
}

func (s *Server) handleHeroNext(w http.ResponseWriter, r *http.Request) {
	s.hero.Next()
	writeJSON(w, http.StatusOK, s.heroResponse(s.hero.State()))
}

func (s *Server) handleHeroPrevious(w http.ResponseWriter, r *http.Request) {
	s.hero.Previous()
	writeJSON(w, http.StatusOK, s.heroResponse(s.hero.State()))
}

func (s *Server) handleHeroGoTo(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slide index")
		return
	}

	if err := s.hero.GoTo(index); err != nil {
		switch {
		case errors.Is(err, slideshow.ErrIndexOutOfRange):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, slideshow.ErrStopped):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, s.heroResponse(s.hero.State()))
}

// handleHeroMessage accepts a message relayed from an embedded player. The
// controller decides whether it is trusted and relevant.
//
// The relay contract: the browser forwards each window "message" event from
// a player iframe with origin set to event.origin, player_id to the id of
// the iframe it came from and data to event.data unchanged. Origin is taken
// from the request body, so the trusted-origin check only holds as far as
// the relaying page reports it honestly; it filters foreign frames, it does
// not authenticate the caller.
func (s *Server) handleHeroMessage(w http.ResponseWriter, r *http.Request) {
	var msg slideshow.Message
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid player message")
		return
	}

	s.hero.Deliver(msg)
	w.WriteHeader(http.StatusAccepted)
}
