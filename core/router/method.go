package router

import (
	"net/http"
	"strings"
)

// MethodAny registers a route that answers every method for which no
// method-specific route exists on the same path.
const MethodAny = "*"

type methodTyp uint

const (
	mCONNECT methodTyp = 1 << iota
	mDELETE
	mGET
	mHEAD
	mOPTIONS
	mPATCH
	mPOST
	mPUT
	mTRACE
	mANY
)

var methodMap = map[string]methodTyp{
	http.MethodConnect: mCONNECT,
	http.MethodDelete:  mDELETE,
	http.MethodGet:     mGET,
	http.MethodHead:    mHEAD,
	http.MethodOptions: mOPTIONS,
	http.MethodPatch:   mPATCH,
	http.MethodPost:    mPOST,
	http.MethodPut:     mPUT,
	http.MethodTrace:   mTRACE,
	MethodAny:          mANY,
}

// methodOrder fixes the order of methods in Allow headers.
var methodOrder = []struct {
	typ  methodTyp
	name string
}{
	{mCONNECT, http.MethodConnect},
	{mDELETE, http.MethodDelete},
	{mGET, http.MethodGet},
	{mHEAD, http.MethodHead},
	{mOPTIONS, http.MethodOptions},
	{mPATCH, http.MethodPatch},
	{mPOST, http.MethodPost},
	{mPUT, http.MethodPut},
	{mTRACE, http.MethodTrace},
}

func parseMethod(method string) (methodTyp, bool) {
	m, ok := methodMap[strings.ToUpper(method)]
	return m, ok
}

func (m methodTyp) names() []string {
	out := make([]string, 0, 4)
	for _, mt := range methodOrder {
		if m&mt.typ != 0 {
			out = append(out, mt.name)
		}
	}
	return out
}

func (m methodTyp) String() string {
	if m == mANY {
		return MethodAny
	}
	return strings.Join(m.names(), ",")
}
