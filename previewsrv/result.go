package previewsrv

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errorResponse is the JSON body written for any error Result.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// result is an in-progress HTTP response, built up by an endpoint function
// and written out once by the calling handler via writeResponse.
type result struct {
	status      int
	isErr       bool
	internalMsg string
	resp        interface{}
	hdrs        [][2]string
}

func ok(respObj interface{}, internalMsg string) result {
	return result{status: http.StatusOK, resp: respObj, internalMsg: internalMsg}
}

func created(respObj interface{}, internalMsg string) result {
	return result{status: http.StatusCreated, resp: respObj, internalMsg: internalMsg}
}

func noContent(internalMsg string) result {
	return result{status: http.StatusNoContent, internalMsg: internalMsg}
}

func errResult(status int, userMsg, internalMsg string) result {
	return result{
		status:      status,
		isErr:       true,
		internalMsg: internalMsg,
		resp:        errorResponse{Error: userMsg, Status: status},
	}
}

func badRequest(userMsg, internalMsg string) result {
	return errResult(http.StatusBadRequest, userMsg, internalMsg)
}

func notFound(internalMsg string) result {
	return errResult(http.StatusNotFound, "The requested resource was not found", internalMsg)
}

func conflict(userMsg, internalMsg string) result {
	return errResult(http.StatusConflict, userMsg, internalMsg)
}

func unauthorized(userMsg, internalMsg string) result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	r := errResult(http.StatusUnauthorized, userMsg, internalMsg)
	r.hdrs = append(r.hdrs, [2]string{"WWW-Authenticate", `Basic realm="expando preview server", charset="utf-8"`})
	return r
}

func internalServerError(internalMsg string) result {
	return errResult(http.StatusInternalServerError, "An internal server error occurred", internalMsg)
}

func (r result) writeResponse(w http.ResponseWriter) {
	if r.status == 0 {
		panic("result not populated")
	}

	var body []byte
	if r.status != http.StatusNoContent {
		var err error
		body, err = json.Marshal(r.resp)
		if err != nil {
			panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.status)
	if r.status != http.StatusNoContent {
		w.Write(body)
	}
}
