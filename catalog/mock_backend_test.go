package catalog

import (
	"reflect"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"github.com/golang/mock/gomock"
)

// mockBackend is a hand-written gomock.Controller-driven double for
// Backend, used where standing up a real sqlite Store would obscure
// what the test is actually asserting (the sequence of Record/Lookup
// calls the Catalog makes, not the storage layer itself).
type mockBackend struct {
	ctrl     *gomock.Controller
	recorder *mockBackendRecorder
}

type mockBackendRecorder struct {
	mock *mockBackend
}

func newMockBackend(ctrl *gomock.Controller) *mockBackend {
	m := &mockBackend{ctrl: ctrl}
	m.recorder = &mockBackendRecorder{m}
	return m
}

func (m *mockBackend) EXPECT() *mockBackendRecorder {
	return m.recorder
}

func (m *mockBackend) Record(msgid, msgType string, ref lexer.SourceRef, comment string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Record", msgid, msgType, ref, comment)
	err, _ := ret[0].(error)
	return err
}

func (mr *mockBackendRecorder) Record(msgid, msgType, ref, comment interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Record", reflect.TypeOf((*mockBackend)(nil).Record), msgid, msgType, ref, comment)
}

func (m *mockBackend) Lookup(msgid, locale string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Lookup", msgid, locale)
	s, _ := ret[0].(string)
	err, _ := ret[1].(error)
	return s, err
}

func (mr *mockBackendRecorder) Lookup(msgid, locale interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Lookup", reflect.TypeOf((*mockBackend)(nil).Lookup), msgid, locale)
}
