/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Every extension keeps at most one configuration singleton. It is loaded from
the "conf" section of the genesis file and can later be changed by its owner
with an update message that carries a patch. Zero value fields of the patch
leave the configuration untouched.
*/
package gconf
