// Package roapi initializes the Windows Runtime and obtains activation
// factories.
//
// Classes registered with Register are served from memory on every
// platform and take precedence over the system. On windows/amd64 all other
// classes are resolved by RoGetActivationFactory; elsewhere they are not
// found.
package roapi
