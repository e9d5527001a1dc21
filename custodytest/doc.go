/*
Package custodytest provides mocks and helpers for testing handlers,
decorators and whole applications.
*/
package custodytest
